package participants

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/middleware"
	"github.com/macerhappen/backend/internal/models"
)

type swipeKey struct{ participant, event int64 }

// memStore keys swipes by (participant, event) like the unique constraint.
type memStore struct {
	swipes map[swipeKey]*models.Swipe
	prefs  map[int64]*models.Preferences
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{swipes: map[swipeKey]*models.Swipe{}, prefs: map[int64]*models.Preferences{
		1: {CategoryIDs: []int64{}, CategoryNames: []string{}, Budget: models.DefaultBudget},
	}}
}

func (m *memStore) GetPreferences(_ context.Context, id int64) (*models.Preferences, error) {
	p, ok := m.prefs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) UpdatePreferences(_ context.Context, id int64, categoryIDs *[]int64, budget *decimal.Decimal) error {
	p, ok := m.prefs[id]
	if !ok {
		return ErrNotFound
	}
	if categoryIDs != nil {
		p.CategoryIDs = *categoryIDs
	}
	if budget != nil {
		p.Budget = *budget
	}
	return nil
}

func (m *memStore) UpsertSwipe(_ context.Context, participantID, eventID int64, liked bool) (*models.Swipe, error) {
	key := swipeKey{participantID, eventID}
	if s, ok := m.swipes[key]; ok {
		s.Liked = liked
		s.UpdatedAt = time.Now()
		cp := *s
		return &cp, nil
	}
	m.nextID++
	s := &models.Swipe{ID: m.nextID, ParticipantID: participantID, EventID: eventID, Liked: liked, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.swipes[key] = s
	cp := *s
	return &cp, nil
}

func (m *memStore) History(_ context.Context, participantID int64) ([]models.Swipe, error) {
	out := []models.Swipe{}
	for k, s := range m.swipes {
		if k.participant == participantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type approvedEvents map[int64]bool

func (a approvedEvents) GetApproved(_ context.Context, id int64) (*models.Event, error) {
	if !a[id] {
		return nil, errdef.NewNotFound("Event not found or not approved.")
	}
	return &models.Event{ID: id, Approved: true}, nil
}

type knownCategories map[int64]bool

func (k knownCategories) CountExisting(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if k[id] {
			n++
		}
	}
	return n, nil
}

type countingInvalidator struct{ calls []int64 }

func (c *countingInvalidator) Invalidate(_ context.Context, id int64) { c.calls = append(c.calls, id) }

func newTestService() (*Service, *memStore, *countingInvalidator) {
	store := newMemStore()
	inv := &countingInvalidator{}
	svc := NewService(store, approvedEvents{5: true, 6: true}, knownCategories{1: true, 9: true}, inv, nil)
	return svc, store, inv
}

func TestSwipe_RepeatOverwrites(t *testing.T) {
	svc, store, inv := newTestService()
	ctx := context.Background()

	first, err := svc.Swipe(ctx, 1, 5, true)
	require.NoError(t, err)
	second, err := svc.Swipe(ctx, 1, 5, false)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, store.swipes, 1)
	assert.False(t, store.swipes[swipeKey{1, 5}].Liked)
	assert.Equal(t, []int64{1, 1}, inv.calls)
}

func TestSwipe_UnapprovedEvent(t *testing.T) {
	svc, store, inv := newTestService()

	_, err := svc.Swipe(context.Background(), 1, 7, true)
	require.Error(t, err)
	assert.True(t, errdef.IsNotFound(err))
	assert.Equal(t, "Event not found or not approved.", err.Error())
	assert.Empty(t, store.swipes)
	assert.Empty(t, inv.calls)
}

func TestUpdatePreferences(t *testing.T) {
	svc, _, inv := newTestService()
	ctx := context.Background()

	_, err := svc.UpdatePreferences(ctx, 1, PreferencesInput{})
	assert.EqualError(t, err, "You must provide at least one of: category_ids, budget.")

	bad := []int64{1, 42}
	_, err = svc.UpdatePreferences(ctx, 1, PreferencesInput{CategoryIDs: &bad})
	assert.EqualError(t, err, "One or more categories IDs are invalid.")

	negative := decimal.RequireFromString("-5")
	_, err = svc.UpdatePreferences(ctx, 1, PreferencesInput{Budget: &negative})
	assert.True(t, errdef.IsBadRequest(err))
	assert.Empty(t, inv.calls)

	cats := []int64{9, 1, 9}
	budget := decimal.RequireFromString("20.00")
	p, err := svc.UpdatePreferences(ctx, 1, PreferencesInput{CategoryIDs: &cats, Budget: &budget})
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 1}, p.CategoryIDs)
	assert.True(t, p.Budget.Equal(budget))
	assert.Equal(t, []int64{1}, inv.calls)

	empty := []int64{}
	p, err = svc.UpdatePreferences(ctx, 1, PreferencesInput{CategoryIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, p.CategoryIDs)
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, nil)
	g := r.Group("/participants", func(c *gin.Context) {
		c.Set(middleware.ContextUser, &models.User{ID: 1, Role: models.RoleParticipant, IsActive: true})
		c.Next()
	})
	g.POST("/swipes", h.Swipe)
	g.GET("/preferences", h.GetPreferences)
	g.PATCH("/preferences", h.UpdatePreferences)
	return r
}

func request(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSwipeHandler(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(svc)

	w := request(r, http.MethodPost, "/participants/swipes", `{"liked": true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"event_id is required."}`, w.Body.String())

	w = request(r, http.MethodPost, "/participants/swipes", `{"event_id": 99, "liked": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Event not found or not approved."}`, w.Body.String())

	w = request(r, http.MethodPost, "/participants/swipes", `{"event_id": 5, "liked": false}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"detail":"Swipe recorded successfully."}}`, w.Body.String())
}

func TestPreferencesHandler(t *testing.T) {
	svc, _, _ := newTestService()
	r := newTestRouter(svc)

	w := request(r, http.MethodGet, "/participants/preferences", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"categories":[],"budget":999999.00}}`, w.Body.String())

	w = request(r, http.MethodPatch, "/participants/preferences", `{"category_ids":[1],"budget":"20.5"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"categories":[1],"budget":20.50}}`, w.Body.String())
}
