//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func createListing(t *testing.T, baseURL string, token string) string {
	t.Helper()

	resp, parsed := doJSON(t, http.MethodPost, baseURL+"/api/marketplace", map[string]any{
		"crop_name": "Wheat",
		"quantity":  "20 quintals",
		"price":     2100,
		"location":  "Hubli",
		"contact":   "9876543210",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := parsed.Data.(map[string]any)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestListingLifecycle(t *testing.T) {
	server := newTestServer(t)

	owner := registerUser(t, server.URL, "owner@example.com")
	listingID := createListing(t, server.URL, owner)

	// Listings are public to read.
	resp, parsed := doJSON(t, http.MethodGet, server.URL+"/api/marketplace/"+listingID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := parsed.Data.(map[string]any)
	require.Equal(t, "Wheat", data["crop_name"])
	require.Equal(t, false, data["verified"])

	// A stranger cannot delete it.
	stranger := registerUser(t, server.URL, "stranger@example.com")
	resp, parsed = doJSON(t, http.MethodDelete, server.URL+"/api/marketplace/"+listingID, nil, stranger)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", parsed.Error.Code)

	// The owner can.
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/marketplace/"+listingID, nil, owner)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/marketplace/"+listingID, nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateListingRequiresAuth(t *testing.T) {
	server := newTestServer(t)

	resp, parsed := doJSON(t, http.MethodPost, server.URL+"/api/marketplace", map[string]any{
		"crop_name": "Wheat",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", parsed.Error.Code)
}

func TestSuperuserRoutes(t *testing.T) {
	server := newTestServer(t)

	owner := registerUser(t, server.URL, "owner@example.com")
	listingID := createListing(t, server.URL, owner)

	// Ordinary users are refused.
	resp, parsed := doJSON(t, http.MethodPost, server.URL+"/api/superuser/verify-crop/"+listingID, nil, owner)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", parsed.Error.Code)

	admin := superuserToken(t, server.URL)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/superuser/verify-crop/"+listingID, nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, parsed = doJSON(t, http.MethodGet, server.URL+"/api/marketplace/"+listingID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := parsed.Data.(map[string]any)
	require.Equal(t, true, data["verified"])

	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/superuser/delete-crop/"+listingID, nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEquipmentCertificationFlow(t *testing.T) {
	server := newTestServer(t)

	user := registerUser(t, server.URL, "owner@example.com")
	resp, parsed := doJSON(t, http.MethodPost, server.URL+"/api/certification/equipment-requests", map[string]string{
		"equipment_name":  "Rotavator",
		"brand":           "Mahindra",
		"origin":          "India",
		"compliance_info": "BIS certified",
	}, user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := parsed.Data.(map[string]any)
	requestID, _ := data["id"].(string)
	require.NotEmpty(t, requestID)

	admin := superuserToken(t, server.URL)

	resp, parsed = doJSON(t, http.MethodGet, server.URL+"/api/superuser/equipment-requests", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	requests := parsed.Data.([]any)
	require.Len(t, requests, 1)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/superuser/verify-equipment/"+requestID, nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPricesAndAdvisorEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, parsed := doJSON(t, http.MethodPost, server.URL+"/api/crop-prices", map[string]string{
		"location":  "Hubli",
		"crop_name": "Wheat",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, parsed.Success)

	resp, parsed = doJSON(t, http.MethodGet, server.URL+"/api/crop-prices/popular", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := parsed.Data.(map[string]any)
	crops := data["crops"].([]any)
	require.Len(t, crops, 12)

	resp, parsed = doJSON(t, http.MethodPost, server.URL+"/api/satellite-insight", map[string]string{
		"location": "Hubli",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	insight := parsed.Data.(map[string]any)
	require.NotEmpty(t, insight["status"])

	resp, parsed = doJSON(t, http.MethodGet, server.URL+"/api/weather/forecast?location=Hubli", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	forecast := parsed.Data.([]any)
	require.Len(t, forecast, 1)
}
