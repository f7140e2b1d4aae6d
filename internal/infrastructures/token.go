package infrastructures

import (
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/pkg/token"
)

func NewTokenIssuer(config *AppConfig) (*token.Issuer, error) {
	issuer, err := token.NewIssuer(config.TokenSecret)
	if err != nil {
		return nil, errors.NewConfigurationError("TOKEN_SECRET is missing or too short")
	}
	return issuer, nil
}
