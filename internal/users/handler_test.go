package users

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/macerhappen/backend/internal/models"
)

type fakeProfiles struct {
	organizers   []models.OrganizerPublic
	participants map[int64]*models.ParticipantPublic
	err          error
}

func (f *fakeProfiles) ListOrganizers(context.Context) ([]models.OrganizerPublic, error) {
	return f.organizers, f.err
}

func (f *fakeProfiles) GetOrganizer(_ context.Context, id int64) (*models.OrganizerPublic, error) {
	for i := range f.organizers {
		if f.organizers[i].ID == id {
			return &f.organizers[i], nil
		}
	}
	return nil, errOrganizerNotFound
}

func (f *fakeProfiles) GetParticipant(_ context.Context, id int64) (*models.ParticipantPublic, error) {
	if p, ok := f.participants[id]; ok {
		return p, nil
	}
	return nil, errParticipantNotFound
}

func newRouter(profiles ProfileReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(profiles, nil)
	r := gin.New()
	r.GET("/public/organizers", h.ListOrganizers)
	r.GET("/public/organizers/:id", h.GetOrganizer)
	r.GET("/public/participants/:id", h.GetParticipant)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPublicProfiles(t *testing.T) {
	r := newRouter(&fakeProfiles{
		organizers: []models.OrganizerPublic{{ID: 3, Username: "club", Name: "Ana", Surname: "Kos", Description: "Techno nights"}},
		participants: map[int64]*models.ParticipantPublic{
			5: {ID: 5, Username: "alice", Name: "Alice", Surname: "Novak", Categories: []string{"Art", "Music"}},
		},
	})

	w := get(r, "/public/organizers")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"organizers":[{"id":3,"username":"club","name":"Ana","surname":"Kos","description":"Techno nights"}]}}`, w.Body.String())

	w = get(r, "/public/organizers/3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":3,"username":"club","name":"Ana","surname":"Kos","description":"Techno nights"}}`, w.Body.String())

	w = get(r, "/public/participants/5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":5,"username":"alice","name":"Alice","surname":"Novak","categories":["Art","Music"]}}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "budget")
	assert.NotContains(t, w.Body.String(), "phone")
}

func TestPublicProfiles_Errors(t *testing.T) {
	r := newRouter(&fakeProfiles{})

	tests := []struct {
		path string
		code int
	}{
		{"/public/organizers/9", http.StatusNotFound},
		{"/public/participants/9", http.StatusNotFound},
		{"/public/organizers/abc", http.StatusBadRequest},
		{"/public/participants/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.code, get(r, tt.path).Code)
		})
	}

	w := get(newRouter(&fakeProfiles{err: errors.New("db down")}), "/public/organizers")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}
