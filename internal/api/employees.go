package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gravitrone/roster/internal/engine"
)

const employeesPath = "/api/employees"

var (
	_ engine.Fetcher = (*Client)(nil)
	_ engine.Updater = (*Client)(nil)
)

// FetchPage lists one page of employees. A non-empty scope is an exact id match.
func (c *Client) FetchPage(ctx context.Context, req engine.PageRequest) (engine.Page, error) {
	params := QueryParams{
		"page": strconv.Itoa(req.PageIndex),
		"size": strconv.Itoa(req.PageSize),
		"id":   req.Scope,
	}
	data, err := c.get(ctx, buildQuery(employeesPath, params))
	if err != nil {
		return engine.Page{}, err
	}
	return decodePage(data)
}

// GetRecord fetches a single employee.
func (c *Client) GetRecord(ctx context.Context, id string) (engine.Record, error) {
	data, err := c.get(ctx, fmt.Sprintf("%s/%s", employeesPath, url.PathEscape(id)))
	if err != nil {
		return engine.Record{}, err
	}
	var w wireRecord
	if err := decodeJSON(data, &w); err != nil {
		return engine.Record{}, err
	}
	return w.toRecord()
}

// UpdateRecord patches an employee and returns the server's canonical fields.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields engine.Fields) (engine.Fields, error) {
	data, err := c.patch(ctx, fmt.Sprintf("%s/%s", employeesPath, url.PathEscape(id)), encodeFields(fields))
	if err != nil {
		return nil, err
	}
	return decodeFields(data)
}
