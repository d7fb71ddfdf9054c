// Package storage builds the key-value substrate selected by the configuration.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/storage/database"
	filekv "github.com/trezcool/deptportal/storage/kv/file"
	inmemkv "github.com/trezcool/deptportal/storage/kv/inmem"
	"github.com/trezcool/deptportal/storage/kv/mongokv"
	"github.com/trezcool/deptportal/storage/kv/rediskv"
	"github.com/trezcool/deptportal/storage/kv/sqlkv"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// Open returns the storage for conf.Storage.Engine. SQL databases are created and migrated when needed.
func Open(ctx context.Context, conf *core.Config) (core.StorageCloser, error) {
	sc := conf.Storage
	switch sc.Engine {
	case core.EngineMemory:
		return inmemkv.New(), nil

	case core.EngineFile:
		return filekv.Open(sc.Path)

	case core.EnginePostgres, core.EngineSQLite:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err := database.Ping(db, 10); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return sqlkv.New(db), nil

	case core.EngineRedis:
		st := rediskv.New(rediskv.NewClient(sc.RedisAddr), sc.RedisPrefix)
		if !st.Healthy(ctx) {
			_ = st.Close()
			return nil, errors.Errorf("redis at %s is unreachable", sc.RedisAddr)
		}
		return st, nil

	case core.EngineMongo:
		client, err := mongokv.Connect(ctx, sc.MongoURI)
		if err != nil {
			return nil, err
		}
		return mongokv.New(client, sc.MongoDatabase), nil

	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "%q", sc.Engine)
	}
}
