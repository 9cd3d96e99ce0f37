package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"farmlink-backend/internal/dto"
	"farmlink-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: user", services.ErrNotFound), 404},
		{fmt.Errorf("%w: edit post", services.ErrForbidden), 403},
		{fmt.Errorf("%w: username taken", services.ErrConflict), 409},
		{fmt.Errorf("%w: role", services.ErrInvalidInput), 400},
		{fmt.Errorf("%w: no actor", services.ErrUnauthorized), 401},
		{errors.New("database exploded"), 500},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
	}
}

func TestWriteServiceError_InternalDetailsHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("pq: connection refused at 10.0.0.3"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestPageParam(t *testing.T) {
	cases := map[string]int{
		"":          1,
		"?page=1":   1,
		"?page=7":   7,
		"?page=0":   1,
		"?page=-3":  1,
		"?page=abc": 1,
	}
	for query, want := range cases {
		r := httptest.NewRequest("GET", "/api/posts"+query, nil)
		assert.Equal(t, want, pageParam(r), "query %q", query)
	}
}

func TestDecodeAndValidate_Register(t *testing.T) {
	valid := dto.RegisterUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
		Role:     "farmer",
	}

	cases := []struct {
		name   string
		mutate func(*dto.RegisterUserRequest)
		ok     bool
	}{
		{"valid", func(r *dto.RegisterUserRequest) {}, true},
		{"short username", func(r *dto.RegisterUserRequest) { r.Username = "ab" }, false},
		{"bad email", func(r *dto.RegisterUserRequest) { r.Email = "not-an-email" }, false},
		{"short password", func(r *dto.RegisterUserRequest) { r.Password = "12345" }, false},
		{"admin not registrable", func(r *dto.RegisterUserRequest) { r.Role = "admin" }, false},
		{"unknown role", func(r *dto.RegisterUserRequest) { r.Role = "wizard" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			body, err := json.Marshal(req)
			require.NoError(t, err)

			r := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader(body))
			var decoded dto.RegisterUserRequest
			err = decodeAndValidate(r, &decoded)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDecodeAndValidate_MalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte("{not json")))
	var decoded dto.RegisterUserRequest
	assert.Error(t, decodeAndValidate(r, &decoded))
}

func TestValidate_ProductRequest(t *testing.T) {
	valid := dto.ProductRequest{
		Name:        "Fresh tomatoes",
		Category:    "vegetables",
		Description: "Picked this morning, very fresh",
		Price:       3.50,
		Quantity:    40,
		Location:    "Green Valley",
		Contact:     "0712345678",
	}
	require.NoError(t, validate.Struct(valid))

	negPrice := valid
	negPrice.Price = -1
	assert.Error(t, validate.Struct(negPrice))

	zeroQty := valid
	zeroQty.Quantity = 0
	assert.Error(t, validate.Struct(zeroQty))

	badCategory := valid
	badCategory.Category = "gadgets"
	assert.Error(t, validate.Struct(badCategory))

	shortContact := valid
	shortContact.Contact = "123"
	assert.Error(t, validate.Struct(shortContact))
}

func TestValidate_PostAndCommentRequests(t *testing.T) {
	require.NoError(t, validate.Struct(dto.PostRequest{Title: "Hello world", Content: "Content long enough"}))
	assert.Error(t, validate.Struct(dto.PostRequest{Title: "Hi", Content: "Content long enough"}))
	assert.Error(t, validate.Struct(dto.PostRequest{Title: "Hello world", Content: "short"}))

	require.NoError(t, validate.Struct(dto.CommentRequest{Content: "!"}))
	assert.Error(t, validate.Struct(dto.CommentRequest{Content: ""}))
}
