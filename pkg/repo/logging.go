package repo

import (
	"go.uber.org/zap"

	"github.com/odvcencio/vcsettings/pkg/object"
)

func zapRef(name string) zap.Field {
	return zap.String("ref", name)
}

func zapHash(key string, h object.Hash) zap.Field {
	return zap.String(key, string(h))
}
