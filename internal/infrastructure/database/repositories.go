package database

import (
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository/memory"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds the storage entry points of the service
type Repositories struct {
	UnitOfWork domainRepo.UnitOfWork
}

// NewRepositories creates postgres-backed repositories
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		UnitOfWork: repository.NewUnitOfWork(db, logger),
	}
}

// NewMemoryRepositories creates process-local repositories for the memory driver
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		UnitOfWork: memory.New(),
	}
}
