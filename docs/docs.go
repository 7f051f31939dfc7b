// Package docs registra la especificación OpenAPI de la API en el registro de swag.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

// FilePath ruta relativa del documento que sirve la UI de Swagger.
const FilePath = "./docs/swagger.json"

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stock Ledger API",
	Description:      "Libro de movimientos de inventario con asignación FIFO por lotes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
