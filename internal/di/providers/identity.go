package providers

import (
	"github.com/samber/do/v2"

	"github.com/plannerapp/planner-server/internal/config"
	"github.com/plannerapp/planner-server/internal/identity"
	"github.com/plannerapp/planner-server/internal/logger"
)

// ProvideVerifier provides the token verifier for externally issued
// PASETO tokens. When no key is configured, a development key is loaded
// from or generated under the data directory; the auth service issuing
// tokens must share it.
func ProvideVerifier(i do.Injector) (identity.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key := cfg.Auth.TokenKey
	if len(key) == 0 {
		loaded, err := identity.LoadOrGenerateKey(cfg.Storage.BasePath)
		if err != nil {
			return nil, err
		}
		key = loaded
		log.Warn("No token key configured, using local development key",
			"path", cfg.Storage.BasePath)
	}

	verifier, err := identity.NewPasetoVerifier(key)
	if err != nil {
		return nil, err
	}

	log.Info("Token verifier ready")
	return verifier, nil
}
