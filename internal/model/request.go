package model

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"min=6"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate collects every violated rule instead of stopping at the first,
// so the client sees the full list in one response.
func (r *RegisterRequest) Validate() []string {
	return collectViolations(r, map[string]string{
		"Name":     "name is required",
		"Email":    "email is required",
		"Password": "password must be at least 6 characters",
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SetRoleRequest struct {
	AdminSecret string `json:"admin_secret,omitempty"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

type SuLoginRequest struct {
	AdminSecret string `json:"admin_secret,omitempty"`
}

type CreateListingRequest struct {
	CropName string  `json:"crop_name" validate:"required"`
	Quantity string  `json:"quantity" validate:"required"`
	Price    float64 `json:"price" validate:"gt=0"`
	Location string  `json:"location" validate:"required"`
	Contact  string  `json:"contact" validate:"required"`
}

func (r *CreateListingRequest) Normalize() {
	r.CropName = strings.TrimSpace(r.CropName)
	r.Quantity = strings.TrimSpace(r.Quantity)
	r.Location = strings.TrimSpace(r.Location)
	r.Contact = strings.TrimSpace(r.Contact)
}

func (r *CreateListingRequest) Validate() []string {
	return collectViolations(r, map[string]string{
		"CropName": "crop_name is required",
		"Quantity": "quantity is required",
		"Price":    "price must be a positive number",
		"Location": "location is required",
		"Contact":  "contact is required",
	})
}

type EquipmentRequestInput struct {
	EquipmentID    string `json:"equipment_id"`
	EquipmentName  string `json:"equipment_name" validate:"required"`
	Brand          string `json:"brand"`
	Origin         string `json:"origin"`
	ComplianceInfo string `json:"compliance_info"`
}

func (r *EquipmentRequestInput) Validate() []string {
	return collectViolations(r, map[string]string{
		"EquipmentName": "equipment_name is required",
	})
}

type PriceLookupRequest struct {
	Location string `json:"location"`
	CropName string `json:"crop_name"`
}

type InsightRequest struct {
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Location string   `json:"location,omitempty"`
}

type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

type CropRecommendationRequest struct {
	Soil     string `json:"soil"`
	Season   string `json:"season"`
	Location string `json:"location,omitempty"`
}

func collectViolations(s any, messages map[string]string) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, exists := messages[fe.StructField()]; exists {
			reasons = append(reasons, msg)
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s is invalid", fe.StructField()))
	}

	return reasons
}
