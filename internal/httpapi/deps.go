package httpapi

import (
	"jobledger-engine/internal/config"
	"jobledger-engine/internal/store"
)

type Deps struct {
	Store *store.DB
	Cfg   config.Config
}
