package bill

import (
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/repository"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
