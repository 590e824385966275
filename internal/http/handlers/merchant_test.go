package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ecodeli/internal/domain"
	"ecodeli/internal/session"
)

type stubMerchantUsecase struct {
	overviewFn func(ctx context.Context, merchantID int64) (*domain.MerchantOverview, error)
}

func (s *stubMerchantUsecase) Overview(ctx context.Context, merchantID int64) (*domain.MerchantOverview, error) {
	return s.overviewFn(ctx, merchantID)
}

func TestMerchantHandler_Overview(t *testing.T) {
	t.Parallel()

	uc := &stubMerchantUsecase{
		overviewFn: func(_ context.Context, id int64) (*domain.MerchantOverview, error) {
			return &domain.MerchantOverview{MerchantID: id, Name: "Shop", Email: "shop@example.com"}, nil
		},
	}
	h := newMerchantHandler(uc, nil)

	tests := []struct {
		name   string
		sess   *session.Session
		status int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"wrong role", &session.Session{UserID: 3, Role: domain.RoleClient}, http.StatusForbidden},
		{"merchant", &session.Session{UserID: 3, Role: domain.RoleMerchant}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/merchant", nil)
			if tt.sess != nil {
				req = req.WithContext(session.WithSession(req.Context(), tt.sess))
			}
			rr := httptest.NewRecorder()
			h.Overview(rr, req)

			require.Equal(t, tt.status, rr.Code)
			if tt.status != http.StatusOK {
				return
			}
			var resp domain.MerchantOverview
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.Equal(t, int64(3), resp.MerchantID)
			require.Equal(t, "Shop", resp.Name)
		})
	}
}
