package invoicenumber

import "go.uber.org/fx"

var Module = fx.Module("invoicenumber.service",
	fx.Provide(New),
)
