package supply

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/mizikori/airwave/internal/infra/config"
)

// NewChainFromConfig creates a supplier chain from configuration.
func NewChainFromConfig(cfg *config.Config) (*Chain, error) {
	if len(cfg.Suppliers) == 0 {
		return nil, errors.New("no suppliers configured")
	}

	var suppliers []SupplierWithMetadata

	for i, scfg := range cfg.Suppliers {
		var supplier Supplier
		var err error

		switch scfg.Type {
		case "radio":
			supplier, err = NewRadioSupplier(scfg.Settings)

		case "library":
			supplier, err = NewLibrarySupplier(scfg.Settings)

		default:
			return nil, errors.Newf("unsupported supplier type: %s (supplier index %d)", scfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create supplier (index %d, type %s)", i, scfg.Type)
		}

		displayName := scfg.DisplayName
		if displayName == "" {
			displayName = scfg.Type
		}

		suppliers = append(suppliers, SupplierWithMetadata{
			Supplier:    supplier,
			DisplayName: displayName,
		})

		zlog.Info().Msgf("supply: registered supplier: index=%d type=%s display_name=%s",
			i+1, scfg.Type, displayName)
	}

	return NewChain(suppliers), nil
}
