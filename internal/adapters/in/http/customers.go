package http

import (
	"net/http"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterCustomer handles POST /api/v1/customers.
func (s *Server) RegisterCustomer(c echo.Context) error {
	var body NewCustomer
	if err := s.bind(c, &body); err != nil {
		return err
	}

	phone, err := kernel.ParsePhoneNumber(body.PhoneNumber, s.countryCode)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRegisterCustomerCommand(body.Name, phone, body.Email)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.h.RegisterCustomer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "register_customer", "customer_id", created.ID().String())
	return c.JSON(http.StatusCreated, customerFromDomain(created))
}

// ListCustomers handles GET /api/v1/customers.
func (s *Server) ListCustomers(c echo.Context) error {
	offset, limit, err := queryPage(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewListCustomersQuery(offset, limit)
	if err != nil {
		return s.fail(c, err)
	}

	page, err := s.h.ListCustomers.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, CustomerPage{
		Count:   page.Total,
		Offset:  page.Page.Offset,
		Limit:   page.Page.Limit,
		Results: customersFromReadModel(page.Customers),
	})
}

// SearchCustomers handles GET /api/v1/customers/search.
func (s *Server) SearchCustomers(c echo.Context) error {
	term, err := queryString(c, "q")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewSearchCustomersQuery(term)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.SearchCustomers.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, customersFromReadModel(found))
}

// GetCustomerByCode handles GET /api/v1/customers/code/{code}.
func (s *Server) GetCustomerByCode(c echo.Context) error {
	code, err := pathString(c, "code")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCustomerByCodeQuery(code)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.GetCustomerByCode.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, customerFromReadModel(found))
}

// GetCustomer handles GET /api/v1/customers/{id}.
func (s *Server) GetCustomer(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCustomerQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.GetCustomer.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, customerFromReadModel(found))
}

// GetCustomerOrders handles GET /api/v1/customers/{id}/orders.
func (s *Server) GetCustomerOrders(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCustomerOrdersQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	orders, err := s.h.CustomerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ordersFromReadModel(orders))
}

// GetCustomerStats handles GET /api/v1/customers/{id}/stats.
func (s *Server) GetCustomerStats(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetCustomerStatsQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	stats, err := s.h.CustomerStats.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, CustomerStats{
		Customer:          customerFromReadModel(stats.Customer),
		TotalOrders:       stats.TotalOrders,
		TotalSpent:        stats.TotalSpent,
		AverageOrderValue: stats.AverageOrderValue,
	})
}

// UpdateCustomer handles PATCH /api/v1/customers/{id}.
func (s *Server) UpdateCustomer(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body CustomerPatch
	if err = s.bind(c, &body); err != nil {
		return err
	}

	patch := customer.Patch{Name: body.Name}
	if body.PhoneNumber != nil {
		phone, err := kernel.ParsePhoneNumber(*body.PhoneNumber, s.countryCode)
		if err != nil {
			return s.fail(c, err)
		}
		patch.PhoneNumber = &phone
	}

	cmd, err := commands.NewUpdateCustomerCommand(id, patch)
	if err != nil {
		return s.fail(c, err)
	}
	updated, err := s.h.UpdateCustomer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "update_customer", "customer_id", id.String())
	return c.JSON(http.StatusOK, customerFromDomain(updated))
}

// DeleteCustomer handles DELETE /api/v1/customers/{id}.
func (s *Server) DeleteCustomer(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewDeleteCustomerCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.DeleteCustomer.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "delete_customer", "customer_id", id.String())
	return noContent(c)
}
