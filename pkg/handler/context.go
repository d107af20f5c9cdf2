package handler

// DI for all handlers.

import (
	"github.com/yumyai/ggsynteny/pkg/config"
	ggdb "github.com/yumyai/ggsynteny/pkg/db"
)

type DBContext struct {
	Store  *ggdb.SyntenyDB
	Config *config.Config
}
