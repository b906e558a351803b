// Package api embeds the OpenAPI document of the HTTP surface and exposes it
// to the request validator and the swagger UI.
package api

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// Load parses and validates the embedded document.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return doc, nil
}

type swaggerDoc struct {
	once sync.Once
	json string
}

// ReadDoc implements swag.Swagger with the document rendered as JSON.
func (d *swaggerDoc) ReadDoc() string {
	d.once.Do(func() {
		doc, err := Load()
		if err != nil {
			d.json = "{}"
			return
		}
		data, err := doc.MarshalJSON()
		if err != nil {
			d.json = "{}"
			return
		}
		d.json = string(data)
	})
	return d.json
}

var registerOnce sync.Once

// RegisterSwagger makes the document available to echo-swagger.
func RegisterSwagger() {
	registerOnce.Do(func() {
		swag.Register(swag.Name, &swaggerDoc{})
	})
}
