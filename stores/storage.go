package stores

import (
	"github.com/Khushitha-V/altarmaker/config"
	"github.com/Khushitha-V/altarmaker/core"
	"github.com/Khushitha-V/altarmaker/stores/aws"
	"github.com/Khushitha-V/altarmaker/stores/filesystem"
	"github.com/Khushitha-V/altarmaker/stores/memory"
	"github.com/Khushitha-V/altarmaker/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// Store is a union interface that includes all store types.
type Store interface {
	core.SessionStore
	core.DraftStore
}

// Open selects a storage backend from the configuration.
func Open(cfg *config.Config) Store {
	var store Store

	storageField := logrus.Fields{
		"storageType": cfg.StorageType,
	}

	switch cfg.StorageType {
	case "filesystem":
		storageField["basePath"] = cfg.LocalStoragePath
		store = filesystem.NewStore(cfg.LocalStoragePath)
	case "sqlite":
		storageField["dataSourceName"] = cfg.DataSourceName
		store = sqlite.NewStore(cfg.DataSourceName)
	case "s3":
		if cfg.S3Bucket == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = cfg.S3Bucket
		store = aws.NewStore(cfg.S3Bucket)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
