package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"threadcart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountHandler_Signup(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Signup", mock.Anything, mock.AnythingOfType("*model.SignupRequest")).Return(nil)

		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.SignupRequest{Email: "alice@example.com", Password: "long enough"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate email yields 409", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Signup", mock.Anything, mock.Anything).Return(model.ErrEmailInUse)

		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.SignupRequest{Email: "alice@example.com", Password: "long enough"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Signup(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAccountHandler_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		svc := new(MockAccountService)
		resp := &model.LoginResponse{
			Token: "tok_abc",
			User:  model.Session{UserID: uuid.New(), Email: "alice@example.com", Role: model.RoleCustomer},
		}
		svc.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).Return(resp, nil)

		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.LoginRequest{Email: "alice@example.com", Password: "correct horse"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var got model.LoginResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "tok_abc", got.Token)
	})

	t.Run("bad credentials yield 401", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidLogin)

		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAccountHandler_Dashboard(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Email: "alice@example.com", Role: model.RoleCustomer}

	svc := new(MockAccountService)
	svc.On("Dashboard", mock.Anything, sess.UserID).Return(&model.DashboardStats{
		OrderCount:    3,
		AddressCount:  1,
		WishlistCount: 2,
		RecentOrders:  []model.OrderSummary{},
	}, nil)

	h := NewAccountHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Dashboard(w, authenticatedRequest(http.MethodGet, "/api/dashboard", nil, sess))

	require.Equal(t, http.StatusOK, w.Code)

	var got model.DashboardStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 2, got.WishlistCount)
}

func TestAccountHandler_Wishlist(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}
	productID := uuid.New()

	t.Run("add requires valid product id", func(t *testing.T) {
		svc := new(MockAccountService)
		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(map[string]string{"productId": "not-a-uuid"})
		w := httptest.NewRecorder()
		h.AddToWishlist(w, authenticatedRequest(http.MethodPost, "/api/wishlist", body, sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("add saves product", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("AddToWishlist", mock.Anything, sess.UserID, productID).Return(nil)

		h := NewAccountHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(map[string]string{"productId": productID.String()})
		w := httptest.NewRecorder()
		h.AddToWishlist(w, authenticatedRequest(http.MethodPost, "/api/wishlist", body, sess))

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("remove deletes product", func(t *testing.T) {
		svc := new(MockAccountService)
		svc.On("RemoveFromWishlist", mock.Anything, sess.UserID, productID).Return(nil)

		h := NewAccountHandler(svc, zerolog.Nop())
		r := chi.NewRouter()
		r.Delete("/api/wishlist/{productId}", h.RemoveFromWishlist)

		req := authenticatedRequest(http.MethodDelete, "/api/wishlist/"+productID.String(), nil, sess)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		svc.AssertExpectations(t)
	})
}
