package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visit-route-service/internal/adapters/repositories"
	"visit-route-service/internal/api"
	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
)

const (
	adminID  = int64(1)
	repID    = int64(2)
	subRepID = int64(3)
	clientID = int64(4)
	otherRep = int64(7)
)

func newTestRouter(t *testing.T) (http.Handler, *repositories.MemoryRouteRepository) {
	t.Helper()

	users := repositories.NewMemoryUserRepository(
		domain.User{ID: adminID, Name: "Ada", Role: domain.RoleAdmin, Active: true},
		domain.User{ID: repID, Name: "Rae", Role: domain.RoleRepresentative, Active: true},
		domain.User{ID: subRepID, Name: "Sam", Role: domain.RoleSubRepresentative, Active: true},
		domain.User{ID: clientID, Name: "Cleo", Role: domain.RoleClient, Active: true},
		domain.User{ID: otherRep, Name: "Omar", Role: domain.RoleRepresentative, Active: true},
	)
	stores := repositories.NewMemoryStoreRepository(
		testStore(1, "Dep du Plateau", "Montreal", 45.50, -73.57, repID),
		testStore(2, "ByWard Corner", "Ottawa", 45.42, -75.70, repID),
		testStore(3, "Queen West Goods", "Toronto", 43.65, -79.38, repID),
		domain.Store{ID: 4, DisplayName: "New Opening", OwnerUserID: int64Ptr(repID)},
	)
	routes := repositories.NewMemoryRouteRepository()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewRouter(logger, routes, stores, users), routes
}

func testStore(id int64, name, city string, lat, lon float64, owner int64) domain.Store {
	return domain.Store{
		ID:          id,
		DisplayName: name,
		City:        city,
		Latitude:    &lat,
		Longitude:   &lon,
		OwnerUserID: int64Ptr(owner),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func doRequest(t *testing.T, h http.Handler, userID int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if userID != 0 {
		req.Header.Set("X-User-Id", strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeRoute(t *testing.T, rec *httptest.ResponseRecorder) dto.RouteResponse {
	t.Helper()
	var res dto.RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func createRoute(t *testing.T, h http.Handler, userID int64, req dto.CreateRouteRequest) dto.RouteResponse {
	t.Helper()
	rec := doRequest(t, h, userID, http.MethodPost, "/routes", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeRoute(t, rec)
}

func stopStoreIDs(route dto.RouteResponse) []int64 {
	ids := make([]int64, 0, len(route.Stops))
	for _, s := range route.Stops {
		ids = append(ids, s.StoreID)
	}
	return ids
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, 0, http.MethodGet, "/routes", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRoute_SequencesStops(t *testing.T) {
	h, _ := newTestRouter(t)

	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "Quebec-Ontario swing",
		AssignedUserID: repID,
		StoreIDs:       []int64{3, 1, 2}, // deliberately out of order
		PlannedDate:    "2026-09-15",
		Comments:       []dto.StopComment{{StoreID: 2, Comment: "ring the back bell"}},
	})

	assert.Equal(t, "DRAFT", route.Status)
	// Toronto anchors the tour (first stop in the request), then its
	// nearest neighbor Ottawa, then Montreal.
	assert.Equal(t, []int64{3, 2, 1}, stopStoreIDs(route))
	assert.InDelta(t, 520, route.TotalDistanceKm, 5)
	assert.Equal(t, "ring the back bell", route.Stops[1].Comment)
	require.NotNil(t, route.PlannedDate)
	assert.Equal(t, "2026-09-15", *route.PlannedDate)
}

func TestCreateRoute_ClientForbidden(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, clientID, http.MethodPost, "/routes", dto.CreateRouteRequest{
		Name:           "should not exist",
		AssignedUserID: clientID,
		StoreIDs:       []int64{1},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateRoute_InaccessibleStore(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, otherRep, http.MethodPost, "/routes", dto.CreateRouteRequest{
		Name:           "poaching",
		AssignedUserID: otherRep,
		StoreIDs:       []int64{1},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateRoute_EmptyStopSet(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, repID, http.MethodPost, "/routes", dto.CreateRouteRequest{
		Name:           "empty",
		AssignedUserID: repID,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateRoute_DuplicateStoreIDs(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, repID, http.MethodPost, "/routes", dto.CreateRouteRequest{
		Name:           "double booked",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 1, 2},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateRoute_BadPlannedDate(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, repID, http.MethodPost, "/routes", dto.CreateRouteRequest{
		Name:           "bad date",
		AssignedUserID: repID,
		StoreIDs:       []int64{1},
		PlannedDate:    "15/09/2026",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetRoute_Visibility(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "island run",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2},
	})

	rec := doRequest(t, h, otherRep, http.MethodGet, "/routes/"+route.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, adminID, http.MethodGet, "/routes/"+route.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, route.ID, decodeRoute(t, rec).ID)
}

func TestGetRoute_MalformedIDIsNotFound(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, repID, http.MethodGet, "/routes/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmRoute(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "friday loop",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2},
	})

	// The client role cannot confirm, the assignee can, and a second
	// confirmation is a state conflict.
	rec := doRequest(t, h, clientID, http.MethodPost, "/routes/"+route.ID+"/confirm", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, repID, http.MethodPost, "/routes/"+route.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", decodeRoute(t, rec).Status)

	rec = doRequest(t, h, repID, http.MethodPost, "/routes/"+route.ID+"/confirm", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateRoute_ConfirmedIsFrozen(t *testing.T) {
	h, routes := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "locked in",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2, 3},
	})
	rec := doRequest(t, h, repID, http.MethodPost, "/routes/"+route.ID+"/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		StoreIDs: []int64{1},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The stored stop list is untouched by the denied rebuild.
	stored := getRoute(t, routes, route.ID)
	assert.Equal(t, []int64{1, 2, 3}, stored.StopStoreIDs())

	// Administrators may still edit a confirmed route.
	rec = doRequest(t, h, adminID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		StoreIDs: []int64{1},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateRoute_RebuildPreservesComments(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "annotated",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2, 3},
		Comments: []dto.StopComment{
			{StoreID: 1, Comment: "ask for Marie"},
			{StoreID: 3, Comment: "loading dock only"},
		},
	})

	// Drop Toronto; Montreal's comment survives the rebuild.
	rec := doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		StoreIDs: []int64{1, 2},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeRoute(t, rec)
	assert.Equal(t, []int64{1, 2}, stopStoreIDs(updated))
	assert.Equal(t, "ask for Marie", updated.Stops[0].Comment)

	// Toronto comes back without its old comment.
	rec = doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		StoreIDs: []int64{1, 2, 3},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decodeRoute(t, rec)
	for _, stop := range updated.Stops {
		if stop.StoreID == 3 {
			assert.Equal(t, "", stop.Comment)
		}
	}
}

func TestUpdateRoute_CommentsOnly(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "notes pass",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2},
	})

	rec := doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		Comments: []dto.StopComment{{StoreID: 2, Comment: "new manager"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeRoute(t, rec)

	assert.Equal(t, stopStoreIDs(route), stopStoreIDs(updated))
	assert.Equal(t, route.TotalDistanceKm, updated.TotalDistanceKm)
	assert.Equal(t, "new manager", updated.Stops[1].Comment)
}

func TestUpdateRoute_SequentialEditsBothSurvive(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "shared draft",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2},
	})

	// One editor annotates a stop, another then edits the notes. Each
	// update transforms the stored route, so neither edit clobbers the
	// other.
	rec := doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		Comments: []dto.StopComment{{StoreID: 1, Comment: "buzzer code 4121"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	notes := "loading zone closes at 5"
	rec = doRequest(t, h, adminID, http.MethodPut, "/routes/"+route.ID, dto.UpdateRouteRequest{
		Notes: &notes,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	final := decodeRoute(t, rec)

	assert.Equal(t, "buzzer code 4121", final.Stops[0].Comment)
	assert.Equal(t, notes, final.Notes)
}

func TestReoptimizeRoute(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "re-run",
		AssignedUserID: repID,
		StoreIDs:       []int64{1, 2, 3},
		Comments:       []dto.StopComment{{StoreID: 2, Comment: "keep me"}},
	})

	rec := doRequest(t, h, repID, http.MethodPost, "/routes/"+route.ID+"/reoptimize", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeRoute(t, rec)

	assert.Equal(t, stopStoreIDs(route), stopStoreIDs(updated))
	assert.InDelta(t, route.TotalDistanceKm, updated.TotalDistanceKm, 0.1)
	assert.Equal(t, "keep me", updated.Stops[1].Comment)
}

func TestListRoutes_ScopedToActor(t *testing.T) {
	h, _ := newTestRouter(t)
	createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "mine",
		AssignedUserID: repID,
		StoreIDs:       []int64{1},
	})

	rec := doRequest(t, h, otherRep, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res dto.ListRoutesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.Routes)

	rec = doRequest(t, h, adminID, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.Routes, 1)
}

func TestUpdateRoute_UnknownFieldRejected(t *testing.T) {
	h, _ := newTestRouter(t)
	route := createRoute(t, h, repID, dto.CreateRouteRequest{
		Name:           "strict body",
		AssignedUserID: repID,
		StoreIDs:       []int64{1},
	})

	rec := doRequest(t, h, repID, http.MethodPut, "/routes/"+route.ID, map[string]any{"nonsense": true})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func getRoute(t *testing.T, routes *repositories.MemoryRouteRepository, id string) domain.Route {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	stored, err := routes.GetByID(t.Context(), parsed)
	require.NoError(t, err)
	return stored
}
