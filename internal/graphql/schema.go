package graphql

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	buchgraphql "buchladen-backend/internal/domains/buch/graphql"
	buchservice "buchladen-backend/internal/domains/buch/service"
	kundegraphql "buchladen-backend/internal/domains/kunde/graphql"
	kundeservice "buchladen-backend/internal/domains/kunde/service"
)

// NewSchema composes the buch and kunde field sets into one schema.
func NewSchema(buchSvc buchservice.Service, kundeSvc kundeservice.Service) (graphql.Schema, error) {
	queryFields := graphql.Fields{}
	mutationFields := graphql.Fields{}

	for name, field := range buchgraphql.QueryFields(buchSvc) {
		queryFields[name] = field
	}
	for name, field := range kundegraphql.QueryFields(kundeSvc) {
		queryFields[name] = field
	}
	for name, field := range buchgraphql.MutationFields(buchSvc) {
		mutationFields[name] = field
	}
	for name, field := range kundegraphql.MutationFields(kundeSvc) {
		mutationFields[name] = field
	}

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queryFields,
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutationFields,
		}),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	return schema, nil
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves POST /graphql. Service errors surface in the standard
// errors array of the response, not as HTTP status codes.
func Handler(schema graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not a graphql request"})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        c.Request.Context(),
		})

		c.JSON(http.StatusOK, result)
	}
}
