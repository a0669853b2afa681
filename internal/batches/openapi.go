package batches

import "github.com/MavuriAlekhya2005/docverify/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Members *openapi.Operation
	Create  *openapi.Operation
	Status  *openapi.Operation
	Prove   *openapi.Operation
}

var Spec = spec{
	List: &openapi.Operation{
		Summary: "List batches",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Items per page", false),
			openapi.QueryParam("status", "string", "Filter by batch status", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Batches list", "BatchPageResult"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get batch",
		Parameters: []*openapi.Parameter{openapi.StringPathParam("id", "Batch ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Batch details", "Batch"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Members: &openapi.Operation{
		Summary:     "List batch members",
		Description: "List member certificates with their leaf indexes, ordered by position",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Batch ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Batch members", "BatchMembers"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create batch",
		Description: "Freeze the listed certificates (or every completed unbatched certificate when the body is empty) into a new batch, compute its merkle root, and submit it for anchoring; admin only",
		RequestBody: openapi.RequestBodyJSON("BatchCreate", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Batch created", "Batch"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			422: {Description: "No eligible certificates, or a listed certificate is not completed or already batched"},
		},
	},
	Status: &openapi.Operation{
		Summary:     "Get batch status",
		Description: "Poll the anchoring backend, record any status transition, and return the current batch state",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Batch ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Current batch state", "Batch"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Prove: &openapi.Operation{
		Summary:     "Get inclusion proof",
		Description: "Build a merkle inclusion proof for the certificate's content hash against its batch root",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("id", "Certificate ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Inclusion proof", "InclusionProof"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Batch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"merkle_root":  {Type: "string", Description: "SHA-256 merkle root, hex encoded"},
				"leaf_count":   {Type: "integer"},
				"status":       {Type: "string", Enum: []string{string(StatusPending), string(StatusSubmitted), string(StatusConfirmed), string(StatusFailed)}},
				"tx_id":        {Type: "string"},
				"anchor_error": {Type: "string"},
				"submitted_at": {Type: "string", Format: "date-time"},
				"confirmed_at": {Type: "string", Format: "date-time"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"BatchCreate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"certificate_ids": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string", Format: "uuid"},
					Description: "Certificates to batch; omit to batch every eligible certificate",
				},
			},
		},
		"BatchMember": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"certificate_id": {Type: "string", Format: "uuid"},
				"content_hash":   {Type: "string"},
				"leaf_index":     {Type: "integer"},
			},
		},
		"BatchMembers": {
			Type:  "array",
			Items: openapi.SchemaRef("BatchMember"),
		},
		"ProofStep": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"hash": {Type: "string", Description: "Sibling hash, hex encoded"},
				"left": {Type: "boolean", Description: "Whether the sibling sits to the left"},
			},
		},
		"InclusionProof": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"certificate_id": {Type: "string", Format: "uuid"},
				"content_hash":   {Type: "string"},
				"leaf_index":     {Type: "integer"},
				"batch_id":       {Type: "string", Format: "uuid"},
				"merkle_root":    {Type: "string"},
				"batch_status":   {Type: "string"},
				"tx_id":          {Type: "string"},
				"proof": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"steps": {Type: "array", Items: openapi.SchemaRef("ProofStep")},
					},
				},
			},
		},
		"BatchPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Batch")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
