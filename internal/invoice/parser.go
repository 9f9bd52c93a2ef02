package invoice

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"github.com/gtfel/sat-invoices/internal/database"
)

// ErrParse indicates a document could not be decoded as a FEL invoice
var ErrParse = errors.New("invoice: failed to parse XML")

// Wire structs for the SAT FEL DTE document format (schema version 0.2.0).
// Element names match across namespace prefixes; only local names are bound.
type gtDocumento struct {
	XMLName xml.Name `xml:"GTDocumento"`
	SAT     struct {
		DTE struct {
			DatosEmision  datosEmision  `xml:"DatosEmision"`
			Certificacion certificacion `xml:"Certificacion"`
		} `xml:"DTE"`
	} `xml:"SAT"`
}

type datosEmision struct {
	DatosGenerales struct {
		FechaHoraEmision string `xml:"FechaHoraEmision,attr"`
		Tipo             string `xml:"Tipo,attr"`
		CodigoMoneda     string `xml:"CodigoMoneda,attr"`
	} `xml:"DatosGenerales"`
	Emisor   emisor   `xml:"Emisor"`
	Receptor receptor `xml:"Receptor"`
	Items    struct {
		Items []itemXML `xml:"Item"`
	} `xml:"Items"`
	Totales totales `xml:"Totales"`
}

type emisor struct {
	NIT                   string `xml:"NITEmisor,attr"`
	Nombre                string `xml:"NombreEmisor,attr"`
	NombreComercial       string `xml:"NombreComercial,attr"`
	CodigoEstablecimiento string `xml:"CodigoEstablecimiento,attr"`
	Direccion             struct {
		Direccion    string `xml:"Direccion"`
		CodigoPostal string `xml:"CodigoPostal"`
		Municipio    string `xml:"Municipio"`
		Departamento string `xml:"Departamento"`
		Pais         string `xml:"Pais"`
	} `xml:"DireccionEmisor"`
}

type receptor struct {
	ID     string `xml:"IDReceptor,attr"`
	Nombre string `xml:"NombreReceptor,attr"`
	Correo string `xml:"CorreoReceptor,attr"`
}

type itemXML struct {
	BienOServicio  string  `xml:"BienOServicio,attr"`
	NumeroLinea    int     `xml:"NumeroLinea,attr"`
	Cantidad       float64 `xml:"Cantidad"`
	UnidadMedida   string  `xml:"UnidadMedida"`
	Descripcion    string  `xml:"Descripcion"`
	PrecioUnitario float64 `xml:"PrecioUnitario"`
	Precio         float64 `xml:"Precio"`
	Descuento      float64 `xml:"Descuento"`
	Total          float64 `xml:"Total"`
	Impuestos      struct {
		Impuestos []impuesto `xml:"Impuesto"`
	} `xml:"Impuestos"`
}

type impuesto struct {
	NombreCorto               string  `xml:"NombreCorto" json:"nombre_corto"`
	CodigoUnidadGravable      string  `xml:"CodigoUnidadGravable" json:"codigo_unidad_gravable"`
	MontoGravable             float64 `xml:"MontoGravable" json:"monto_gravable"`
	MontoImpuesto             float64 `xml:"MontoImpuesto" json:"monto_impuesto"`
	CantidadUnidadesGravables float64 `xml:"CantidadUnidadesGravables" json:"cantidad_unidades_gravables,omitempty"`
}

type totales struct {
	TotalImpuestos struct {
		Totals []struct {
			NombreCorto        string  `xml:"NombreCorto,attr"`
			TotalMontoImpuesto float64 `xml:"TotalMontoImpuesto,attr"`
		} `xml:"TotalImpuesto"`
	} `xml:"TotalImpuestos"`
	GranTotal float64 `xml:"GranTotal"`
}

type certificacion struct {
	NumeroAutorizacion struct {
		Value  string `xml:",chardata"`
		Serie  string `xml:"Serie,attr"`
		Numero string `xml:"Numero,attr"`
	} `xml:"NumeroAutorizacion"`
}

// Parsed is the database-ready result of decoding one FEL document
type Parsed struct {
	Invoice   database.Invoice
	Issuer    database.Issuer
	Recipient database.Recipient
	Items     []database.Item
}

// Parse decodes a sanitized FEL XML document into database models
func Parse(data []byte, xmlURL string) (*Parsed, error) {
	var doc gtDocumento
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	emission := doc.SAT.DTE.DatosEmision
	cert := doc.SAT.DTE.Certificacion

	if cert.NumeroAutorizacion.Value == "" {
		return nil, fmt.Errorf("%w: missing authorization number", ErrParse)
	}
	if emission.Receptor.ID == "" {
		return nil, fmt.Errorf("%w: missing recipient NIT", ErrParse)
	}

	emissionDate, err := parseEmissionDate(emission.DatosGenerales.FechaHoraEmision)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var vat float64
	for _, t := range emission.Totales.TotalImpuestos.Totals {
		if t.NombreCorto == "IVA" {
			vat = t.TotalMontoImpuesto
		}
	}

	// Quetzal documents frequently omit the attribute
	currency := emission.DatosGenerales.CodigoMoneda
	if currency == "" {
		currency = "GTQ"
	}

	items := make([]database.Item, 0, len(emission.Items.Items))
	for _, it := range emission.Items.Items {
		item := database.Item{
			LineNumber:    it.NumeroLinea,
			GoodOrService: it.BienOServicio,
			Quantity:      it.Cantidad,
			UnitOfMeasure: it.UnidadMedida,
			Description:   it.Descripcion,
			UnitPrice:     it.PrecioUnitario,
			Price:         it.Precio,
			Discount:      it.Descuento,
			Total:         it.Total,
		}
		if len(it.Impuestos.Impuestos) > 0 {
			encoded, err := json.Marshal(it.Impuestos.Impuestos)
			if err != nil {
				return nil, fmt.Errorf("%w: encoding item taxes: %v", ErrParse, err)
			}
			taxes := string(encoded)
			item.Taxes = &taxes
		}
		items = append(items, item)
	}

	return &Parsed{
		Invoice: database.Invoice{
			AuthorizationNumber: cert.NumeroAutorizacion.Value,
			Series:              cert.NumeroAutorizacion.Serie,
			Number:              cert.NumeroAutorizacion.Numero,
			DocumentType:        emission.DatosGenerales.Tipo,
			Total:               emission.Totales.GranTotal,
			VAT:                 vat,
			Currency:            currency,
			XMLURL:              xmlURL,
			EmissionDate:        emissionDate,
		},
		Issuer: database.Issuer{
			NIT:               emission.Emisor.NIT,
			Name:              emission.Emisor.Nombre,
			CommercialName:    optional(emission.Emisor.NombreComercial),
			EstablishmentCode: optional(emission.Emisor.CodigoEstablecimiento),
			Address:           optional(emission.Emisor.Direccion.Direccion),
			Department:        optional(emission.Emisor.Direccion.Departamento),
			Municipality:      optional(emission.Emisor.Direccion.Municipio),
			PostalCode:        optional(emission.Emisor.Direccion.CodigoPostal),
			Country:           optional(emission.Emisor.Direccion.Pais),
		},
		Recipient: database.Recipient{
			NIT:   emission.Receptor.ID,
			Name:  emission.Receptor.Nombre,
			Email: optional(emission.Receptor.Correo),
		},
		Items: items,
	}, nil
}

// parseEmissionDate accepts RFC 3339 timestamps with or without a zone offset
func parseEmissionDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized emission date %q", value)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
