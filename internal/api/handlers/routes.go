package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"visit-route-service/internal/api/dto"
	"visit-route-service/internal/domain"
	"visit-route-service/internal/metrics"
	"visit-route-service/internal/ports"
	"visit-route-service/internal/services"
)

// RouteHandler exposes the route planning and lifecycle endpoints.
// It orchestrates repository access around the engine's pure operations:
// load route, transform in memory, save atomically.
type RouteHandler struct {
	Routes ports.RouteRepository
	Stores ports.StoreRepository
	Users  ports.UserRepository
}

// List returns the routes the actor may view, newest first.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	routes, err := h.Routes.ListAccessible(r.Context(), actor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, route := range routes {
		res.Routes = append(res.Routes, toRouteResponse(route))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Create builds a new DRAFT route: the requested stores are sequenced and
// metriced immediately, so the route is never persisted unordered.
func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	var req dto.CreateRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if !services.CanCreateRoutes(actor) {
		writeError(w, r, http.StatusForbidden, "not allowed to create routes")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeDomainError(w, r, fmt.Errorf("%w: name is required", domain.ErrValidation))
		return
	}

	plannedDate, err := services.ParsePlannedDate(req.PlannedDate)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	assignee, err := h.getAssignee(r.Context(), req.AssignedUserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	route := domain.Route{
		Name:            name,
		Status:          domain.RouteDraft,
		PlannedDate:     plannedDate,
		CreatedByUserID: actor.ID,
		AssignedUserID:  actor.ID,
		Notes:           req.Notes,
	}
	if err := services.Reassign(&route, actor, assignee); err != nil {
		writeDomainError(w, r, err)
		return
	}

	stores, err := h.selectStores(r.Context(), actor, req.StoreIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := services.RebuildStops(&route, stores, commentsByStoreID(req.Comments)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	observeRebuild("create", len(route.Stops))

	created, err := h.Routes.Create(r.Context(), route)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toRouteResponse(created))
}

// Get returns one route with its ordered stop list.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	route, ok := h.loadRoute(w, r)
	if !ok {
		return
	}
	if !services.CanViewRoute(actor, route) {
		writeError(w, r, http.StatusForbidden, "not allowed to view this route")
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

// Update edits route metadata and, when store_ids is present, rebuilds the
// stop set. Comments on stores kept across the rebuild survive; comments for
// dropped stores are discarded with them.
//
// The whole transformation runs inside Routes.Update, so it operates on the
// route as stored under the write lock: a concurrent editor's committed
// changes are visible here, never overwritten from a stale copy.
func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	id, ok := routeID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateRouteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	saved, err := h.Routes.Update(r.Context(), id, func(route *domain.Route) error {
		if !services.CanEditRoute(actor, *route) {
			return fmt.Errorf("%w: not allowed to edit this route", domain.ErrPermission)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name is required", domain.ErrValidation)
			}
			route.Name = name
		}
		if req.Notes != nil {
			route.Notes = *req.Notes
		}
		if req.PlannedDate != nil {
			plannedDate, err := services.ParsePlannedDate(*req.PlannedDate)
			if err != nil {
				return err
			}
			route.PlannedDate = plannedDate
		}

		if req.AssignedUserID != nil && *req.AssignedUserID != route.AssignedUserID {
			assignee, err := h.getAssignee(r.Context(), *req.AssignedUserID)
			if err != nil {
				return err
			}
			if err := services.Reassign(route, actor, assignee); err != nil {
				return err
			}
		}

		if len(req.StoreIDs) > 0 {
			stores, err := h.selectStores(r.Context(), actor, req.StoreIDs)
			if err != nil {
				return err
			}

			// Comments already on the route carry over; the request may
			// overwrite them or supply comments for newly added stores.
			comments := route.StopComments()
			for id, c := range commentsByStoreID(req.Comments) {
				comments[id] = c
			}

			return services.RebuildStops(route, stores, comments)
		}
		if len(req.Comments) > 0 {
			services.UpdateStopComments(route, commentsByStoreID(req.Comments))
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if len(req.StoreIDs) > 0 {
		observeRebuild("update", len(saved.Stops))
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(saved))
}

// Confirm transitions the route DRAFT -> CONFIRMED.
func (h *RouteHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	id, ok := routeID(w, r)
	if !ok {
		return
	}

	saved, err := h.Routes.Update(r.Context(), id, func(route *domain.Route) error {
		return services.Confirm(route, actor)
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(saved))
}

// Reoptimize re-runs sequencing and metrics over the route's current store
// set, preserving comments. Useful after store coordinates change.
func (h *RouteHandler) Reoptimize(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r.Context())

	id, ok := routeID(w, r)
	if !ok {
		return
	}

	saved, err := h.Routes.Update(r.Context(), id, func(route *domain.Route) error {
		if !services.CanEditRoute(actor, *route) {
			return fmt.Errorf("%w: not allowed to edit this route", domain.ErrPermission)
		}

		stores, err := h.Stores.GetByIDs(r.Context(), route.StopStoreIDs())
		if err != nil {
			return err
		}
		return services.RebuildStops(route, stores, route.StopComments())
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	observeRebuild("reoptimize", len(saved.Stops))

	writeJSON(w, r, http.StatusOK, toRouteResponse(saved))
}

// routeID resolves the {routeID} path parameter. A malformed id is reported
// as 404; false means the response has been written.
func routeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "routeID"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

// loadRoute reads the route named by the {routeID} path parameter; false
// means the response has been written.
func (h *RouteHandler) loadRoute(w http.ResponseWriter, r *http.Request) (domain.Route, bool) {
	id, ok := routeID(w, r)
	if !ok {
		return domain.Route{}, false
	}

	route, err := h.Routes.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return domain.Route{}, false
	}
	return route, true
}

// getAssignee loads the requested assignee; an unknown id is a validation
// problem with the request, not a missing resource.
func (h *RouteHandler) getAssignee(ctx context.Context, id int64) (domain.User, error) {
	assignee, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: assigned user %d does not exist", domain.ErrValidation, id)
	}
	if err != nil {
		return domain.User{}, err
	}
	return assignee, nil
}

// selectStores resolves the requested store ids, enforcing that every one is
// visible to the actor.
func (h *RouteHandler) selectStores(ctx context.Context, actor domain.User, storeIDs []int64) ([]domain.Store, error) {
	if len(storeIDs) == 0 {
		return nil, fmt.Errorf("%w: empty stop set", domain.ErrValidation)
	}
	seen := make(map[int64]struct{}, len(storeIDs))
	for _, id := range storeIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: duplicate store %d in selection", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	accessible, err := h.Stores.ListAccessible(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	visible := make(map[int64]struct{}, len(accessible))
	for _, s := range accessible {
		visible[s.ID] = struct{}{}
	}
	for _, id := range storeIDs {
		if _, ok := visible[id]; !ok {
			return nil, fmt.Errorf("%w: store %d is not accessible", domain.ErrPermission, id)
		}
	}

	stores, err := h.Stores.GetByIDs(ctx, storeIDs)
	if err != nil {
		return nil, fmt.Errorf("select stores: %w", err)
	}
	if len(stores) != len(storeIDs) {
		return nil, fmt.Errorf("%w: invalid store selection", domain.ErrValidation)
	}
	return stores, nil
}

func commentsByStoreID(comments []dto.StopComment) map[int64]string {
	out := make(map[int64]string, len(comments))
	for _, c := range comments {
		out[c.StoreID] = c.Comment
	}
	return out
}

func observeRebuild(trigger string, stops int) {
	metrics.RouteRebuilds.WithLabelValues(trigger).Inc()
	metrics.RouteStopsSequenced.Observe(float64(stops))
}

func toRouteResponse(route domain.Route) dto.RouteResponse {
	stops := make([]dto.RouteStopResponse, 0, len(route.Stops))
	for _, s := range route.Stops {
		stops = append(stops, dto.RouteStopResponse{
			Sequence:         s.Sequence,
			StoreID:          s.StoreID,
			StoreName:        s.StoreName,
			Comment:          s.Comment,
			TravelDistanceKm: s.TravelDistanceKm,
			TravelMinutes:    s.TravelMinutes,
		})
	}

	res := dto.RouteResponse{
		ID:                 route.ID.String(),
		Name:               route.Name,
		Status:             string(route.Status),
		CreatedByUserID:    route.CreatedByUserID,
		AssignedUserID:     route.AssignedUserID,
		Notes:              route.Notes,
		TotalDistanceKm:    route.TotalDistanceKm,
		TotalTravelMinutes: route.TotalTravelMinutes,
		Stops:              stops,
		CreatedAt:          route.CreatedAt,
		UpdatedAt:          route.UpdatedAt,
	}
	if route.PlannedDate != nil {
		d := route.PlannedDate.Format("2006-01-02")
		res.PlannedDate = &d
	}
	return res
}
