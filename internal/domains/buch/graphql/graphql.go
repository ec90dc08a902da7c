package graphql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/internal/domains/buch/service"
)

var buchType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Buch",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"version": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"titel":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"rating":  &graphql.Field{Type: graphql.Int},
		"art":     &graphql.Field{Type: graphql.String},
		"verlag":  &graphql.Field{Type: graphql.String},
		"preis": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				buch, _ := p.Source.(model.Buch)
				f, _ := buch.Preis.Float64()
				return f, nil
			},
		},
		"rabatt": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				buch, _ := p.Source.(model.Buch)
				if buch.Rabatt == nil {
					return nil, nil
				}
				f, _ := buch.Rabatt.Float64()
				return f, nil
			},
		},
		"lieferbar":     &graphql.Field{Type: graphql.Boolean},
		"datum":         &graphql.Field{Type: graphql.String},
		"isbn":          &graphql.Field{Type: graphql.String},
		"homepage":      &graphql.Field{Type: graphql.String},
		"schlagwoerter": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// QueryFields returns the buch queries for the composed schema.
func QueryFields(svc service.Service) graphql.Fields {
	return graphql.Fields{
		"buch": &graphql.Field{
			Type: buchType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				buch, err := svc.FindByID(p.Context, id)
				if err != nil {
					return nil, err
				}
				return *buch, nil
			},
		},
		"buecher": &graphql.Field{
			Type: graphql.NewList(buchType),
			Args: graphql.FieldConfigArgument{
				"titel": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				criteria := model.SearchCriteria{}
				if titel, ok := p.Args["titel"].(string); ok {
					criteria.Titel = titel
				}
				return svc.Find(p.Context, criteria)
			},
		},
	}
}

// MutationFields returns the buch mutations for the composed schema.
func MutationFields(svc service.Service) graphql.Fields {
	inputArgs := graphql.FieldConfigArgument{
		"titel":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"rating":        &graphql.ArgumentConfig{Type: graphql.Int},
		"art":           &graphql.ArgumentConfig{Type: graphql.String},
		"verlag":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"preis":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"rabatt":        &graphql.ArgumentConfig{Type: graphql.Float},
		"lieferbar":     &graphql.ArgumentConfig{Type: graphql.Boolean},
		"datum":         &graphql.ArgumentConfig{Type: graphql.String},
		"isbn":          &graphql.ArgumentConfig{Type: graphql.String},
		"homepage":      &graphql.ArgumentConfig{Type: graphql.String},
		"schlagwoerter": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
	}

	createArgs := graphql.FieldConfigArgument{}
	updateArgs := graphql.FieldConfigArgument{
		"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		"version": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
	}
	for name, arg := range inputArgs {
		createArgs[name] = arg
		updateArgs[name] = arg
	}

	return graphql.Fields{
		"createBuch": &graphql.Field{
			Type: buchType,
			Args: createArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				buch, err := buchFromArgs(p.Args)
				if err != nil {
					return nil, err
				}
				created, err := svc.Create(p.Context, buch)
				if err != nil {
					return nil, err
				}
				return *created, nil
			},
		},
		"updateBuch": &graphql.Field{
			Type: buchType,
			Args: updateArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				buch, err := buchFromArgs(p.Args)
				if err != nil {
					return nil, err
				}
				buch.ID, _ = p.Args["id"].(string)
				version, _ := p.Args["version"].(int)

				updated, err := svc.Update(p.Context, buch, strconv.Itoa(version))
				if err != nil {
					return nil, err
				}
				return *updated, nil
			},
		},
		"deleteBuch": &graphql.Field{
			Type: graphql.Boolean,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				return svc.Delete(p.Context, id)
			},
		},
	}
}

func buchFromArgs(args map[string]interface{}) (*model.Buch, error) {
	buch := &model.Buch{}

	if titel, ok := args["titel"].(string); ok {
		buch.Titel = titel
	}
	if rating, ok := args["rating"].(int); ok {
		buch.Rating = &rating
	}
	if art, ok := args["art"].(string); ok {
		buch.Art = model.BuchArt(art)
	}
	if verlag, ok := args["verlag"].(string); ok {
		buch.Verlag = model.Verlag(verlag)
	}
	if preis, ok := args["preis"].(float64); ok {
		buch.Preis = decimal.NewFromFloat(preis)
	}
	if rabatt, ok := args["rabatt"].(float64); ok {
		d := decimal.NewFromFloat(rabatt)
		buch.Rabatt = &d
	}
	if lieferbar, ok := args["lieferbar"].(bool); ok {
		buch.Lieferbar = &lieferbar
	}
	if datum, ok := args["datum"].(string); ok && datum != "" {
		t, err := time.Parse("2006-01-02", datum)
		if err != nil {
			return nil, fmt.Errorf("datum must be formatted YYYY-MM-DD: %w", err)
		}
		buch.Datum = &t
	}
	if isbn, ok := args["isbn"].(string); ok {
		buch.Isbn = isbn
	}
	if homepage, ok := args["homepage"].(string); ok {
		buch.Homepage = homepage
	}
	if tags, ok := args["schlagwoerter"].([]interface{}); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				buch.Schlagwoerter = append(buch.Schlagwoerter, s)
			}
		}
	}

	return buch, nil
}
