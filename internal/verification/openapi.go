package verification

import "github.com/MavuriAlekhya2005/docverify/pkg/openapi"

type spec struct {
	Verify *openapi.Operation
	Full   *openapi.Operation
	QR     *openapi.Operation
}

var Spec = spec{
	Verify: &openapi.Operation{
		Summary:     "Verify document",
		Description: "Look up a document's verification summary by its SHA-256 content hash",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("hash", "Hex encoded SHA-256 content hash")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Verification result", "VerificationResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseJSON("Unknown content hash", "VerificationResult"),
		},
	},
	Full: &openapi.Operation{
		Summary:     "Unlock full details",
		Description: "Exchange the certificate's access key for the full extracted details",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("hash", "Hex encoded SHA-256 content hash")},
		RequestBody: openapi.RequestBodyJSON("FullAccessRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Full extracted details", "FullDetails"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			422: {Description: "Extraction has not completed"},
		},
	},
	QR: &openapi.Operation{
		Summary:     "Verification QR code",
		Description: "Render a PNG QR code linking to the public verification page",
		Parameters: []*openapi.Parameter{
			openapi.StringPathParam("hash", "Hex encoded SHA-256 content hash"),
			openapi.QueryParam("size", "integer", "Image size in pixels, 128 to 1024", false),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "PNG image"},
			400: openapi.ResponseRef("BadRequest"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"VerificationResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"content_hash": {Type: "string"},
				"summary":      openapi.SchemaRef("VerificationSummary"),
				"status":       {Type: "string"},
				"anchored":     {Type: "boolean"},
			},
		},
		"FullAccessRequest": {
			Type:     "object",
			Required: []string{"access_key"},
			Properties: map[string]*openapi.Schema{
				"access_key": {Type: "string"},
			},
		},
	}
}
