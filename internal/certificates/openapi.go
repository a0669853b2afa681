package certificates

import "github.com/MavuriAlekhya2005/docverify/pkg/openapi"

type spec struct {
	List     *openapi.Operation
	Find     *openapi.Operation
	Upload   *openapi.Operation
	Update   *openapi.Operation
	Delete   *openapi.Operation
	Download *openapi.Operation
	Extract  *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List certificates",
		Description: "List certificates with pagination; admins see all, others their own",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("search", "string", "Search in name and filename", false),
			openapi.QueryParam("content_type", "string", "Filter by content type", false),
			openapi.QueryParam("extraction_status", "string", "Filter by extraction status", false),
			openapi.QueryParam("anchored", "boolean", "Filter by batch membership", false),
			openapi.QueryParam("owner_id", "string", "Filter by owner; admin only", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Certificates list", "CertificatePageResult"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get certificate",
		Parameters: []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Certificate details", "Certificate"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload certificate",
		Description: "Upload a document as multipart form data. The response includes the plaintext access key exactly once.",
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Certificate created", "UploadResponse"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			413: {Description: "File exceeds the maximum upload size"},
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update certificate",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		RequestBody: openapi.RequestBodyJSON("CertificateUpdate", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Certificate updated", "Certificate"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete certificate",
		Description: "Delete a certificate and its stored file. Batch members cannot be deleted.",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Certificate deleted"},
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Download: &openapi.Operation{
		Summary:     "Download certificate file",
		Description: "Download the original file and increment the download counter",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		Responses: map[int]*openapi.Response{
			200: {Description: "File content"},
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Extract: &openapi.Operation{
		Summary:     "Re-queue extraction",
		Description: "Return a failed certificate to the extraction queue",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		Responses: map[int]*openapi.Response{
			202: {Description: "Extraction queued"},
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Certificate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                   {Type: "string", Format: "uuid"},
				"owner_id":             {Type: "string", Format: "uuid"},
				"name":                 {Type: "string"},
				"filename":             {Type: "string"},
				"content_type":         {Type: "string"},
				"size_bytes":           {Type: "integer", Format: "int64"},
				"page_count":           {Type: "integer"},
				"content_hash":         {Type: "string", Description: "SHA-256 of the file content, hex encoded"},
				"extraction_status":    {Type: "string", Enum: []string{string(ExtractionPending), string(ExtractionProcessing), string(ExtractionCompleted), string(ExtractionFailed)}},
				"extraction_error":     {Type: "string"},
				"primary_details":      openapi.SchemaRef("PrimaryDetails"),
				"full_details":         openapi.SchemaRef("FullDetails"),
				"verification_summary": openapi.SchemaRef("VerificationSummary"),
				"verification_count":   {Type: "integer"},
				"full_access_count":    {Type: "integer"},
				"download_count":       {Type: "integer"},
				"batch_id":             {Type: "string", Format: "uuid"},
				"leaf_index":           {Type: "integer"},
				"created_at":           {Type: "string", Format: "date-time"},
				"updated_at":           {Type: "string", Format: "date-time"},
			},
		},
		"PrimaryDetails": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_type":    {Type: "string"},
				"holder_name":      {Type: "string"},
				"issuer":           {Type: "string"},
				"issue_date":       {Type: "string"},
				"reference_number": {Type: "string"},
			},
		},
		"FullDetails": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text":         {Type: "string"},
				"metadata":     {Type: "object"},
				"extracted_at": {Type: "string", Format: "date-time"},
			},
		},
		"VerificationSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":          {Type: "string"},
				"document_type": {Type: "string"},
				"issuer":        {Type: "string"},
				"issue_date":    {Type: "string"},
				"content_hash":  {Type: "string"},
				"status":        {Type: "string"},
				"anchored":      {Type: "boolean"},
				"merkle_root":   {Type: "string"},
				"tx_id":         {Type: "string"},
				"anchored_at":   {Type: "string", Format: "date-time"},
			},
		},
		"CertificateUpdate": {
			Type:     "object",
			Required: []string{"name"},
			Properties: map[string]*openapi.Schema{
				"name": {Type: "string"},
			},
		},
		"UploadResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"certificate": openapi.SchemaRef("Certificate"),
				"access_key":  {Type: "string", Description: "Shown once; unlocks full verification details"},
			},
		},
		"CertificatePageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Certificate")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
