package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"threadcart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Get(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}

	svc := new(MockCartService)
	svc.On("Get", mock.Anything, sess.UserID).Return(&model.Cart{
		Items: []model.CartItem{
			{ProductID: uuid.NewString(), Title: "Slim Fit Jeans", Price: decimal.NewFromFloat(49.99), Quantity: 2},
		},
	}, nil)

	h := NewCartHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Get(w, authenticatedRequest(http.MethodGet, "/api/cart", nil, sess))

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Cart
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartHandler_AddItem(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}
	productID := uuid.NewString()

	t.Run("adds line", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, sess.UserID, mock.MatchedBy(func(item model.CartItem) bool {
			return item.ProductID == productID && item.Quantity == 3
		})).Return(&model.Cart{Items: []model.CartItem{{ProductID: productID, Quantity: 3}}}, nil)

		h := NewCartHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.CartItem{ProductID: productID, Quantity: 3})
		w := httptest.NewRecorder()
		h.AddItem(w, authenticatedRequest(http.MethodPost, "/api/cart/items", body, sess))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("clamps quantity to one", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddItem", mock.Anything, sess.UserID, mock.MatchedBy(func(item model.CartItem) bool {
			return item.Quantity == 1
		})).Return(&model.Cart{}, nil)

		h := NewCartHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.CartItem{ProductID: productID, Quantity: -5})
		w := httptest.NewRecorder()
		h.AddItem(w, authenticatedRequest(http.MethodPost, "/api/cart/items", body, sess))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires product id", func(t *testing.T) {
		svc := new(MockCartService)
		h := NewCartHandler(svc, zerolog.Nop())

		body, _ := json.Marshal(model.CartItem{Quantity: 1})
		w := httptest.NewRecorder()
		h.AddItem(w, authenticatedRequest(http.MethodPost, "/api/cart/items", body, sess))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartHandler_SetQuantity(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}
	productID := uuid.NewString()

	t.Run("updates line", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("SetQuantity", mock.Anything, sess.UserID, productID, 4).
			Return(&model.Cart{Items: []model.CartItem{{ProductID: productID, Quantity: 4}}}, nil)

		h := NewCartHandler(svc, zerolog.Nop())
		r := chi.NewRouter()
		r.Put("/api/cart/items/{productId}", h.SetQuantity)

		body, _ := json.Marshal(map[string]int{"quantity": 4})
		req := authenticatedRequest(http.MethodPut, "/api/cart/items/"+productID, body, sess)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		svc := new(MockCartService)
		h := NewCartHandler(svc, zerolog.Nop())
		r := chi.NewRouter()
		r.Put("/api/cart/items/{productId}", h.SetQuantity)

		body, _ := json.Marshal(map[string]int{"quantity": -1})
		req := authenticatedRequest(http.MethodPut, "/api/cart/items/"+productID, body, sess)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartHandler_RemoveItem(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}
	productID := uuid.NewString()

	svc := new(MockCartService)
	svc.On("RemoveItem", mock.Anything, sess.UserID, productID).Return(&model.Cart{}, nil)

	h := NewCartHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Delete("/api/cart/items/{productId}", h.RemoveItem)

	req := authenticatedRequest(http.MethodDelete, "/api/cart/items/"+productID, nil, sess)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_Clear(t *testing.T) {
	sess := &model.Session{UserID: uuid.New(), Role: model.RoleCustomer}

	svc := new(MockCartService)
	svc.On("Clear", mock.Anything, sess.UserID).Return(nil)

	h := NewCartHandler(svc, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Clear(w, authenticatedRequest(http.MethodDelete, "/api/cart", nil, sess))

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
