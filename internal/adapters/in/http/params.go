package http

import (
	"brokerage/internal/core/application/usecases/queries"
	"brokerage/internal/core/domain/model/kernel"
	"brokerage/internal/core/domain/model/order"
	"brokerage/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func bindOrderID(c echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func bindOptionalUUID(c echo.Context, name string) (*kernel.UUID, error) {
	var raw *openapi_types.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &raw); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func bindListFilter(c echo.Context) (queries.ListOrdersFilter, error) {
	var filter queries.ListOrdersFilter

	var rawStatus *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &rawStatus); err != nil {
		return filter, errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	if rawStatus != nil {
		status, err := order.ParseStatus(*rawStatus)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	clientID, err := bindOptionalUUID(c, "client_id")
	if err != nil {
		return filter, err
	}
	filter.ClientID = clientID

	return filter, nil
}
