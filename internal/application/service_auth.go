package application

import (
	"context"
	"strings"

	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/domain"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

func (s *Service) ValidateToken(ctx context.Context, token string) (ports.AuthClaims, error) {
	if strings.TrimSpace(token) == "" {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	claims, err := s.authClient.ValidateToken(ctx, token)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected", "operation", "validate_token", "outcome", "denied", "error", err)
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if !claims.Valid || claims.UserID == "" {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}
