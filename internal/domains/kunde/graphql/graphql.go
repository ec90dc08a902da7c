package graphql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"

	"buchladen-backend/internal/domains/kunde/model"
	"buchladen-backend/internal/domains/kunde/service"
)

var kundeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Kunde",
	Fields: graphql.Fields{
		"id":                  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"version":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"nachname":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"vorname":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"geschlecht":          &graphql.Field{Type: graphql.String},
		"kundenart":           &graphql.Field{Type: graphql.String},
		"email":               &graphql.Field{Type: graphql.String},
		"strasse":             &graphql.Field{Type: graphql.String},
		"hausnummer":          &graphql.Field{Type: graphql.String},
		"plz":                 &graphql.Field{Type: graphql.String},
		"ort":                 &graphql.Field{Type: graphql.String},
		"aktiv":               &graphql.Field{Type: graphql.Boolean},
		"registrierungsdatum": &graphql.Field{Type: graphql.String},
		"zusatzinfo":          &graphql.Field{Type: graphql.String},
	},
})

// QueryFields returns the kunde queries for the composed schema.
func QueryFields(svc service.Service) graphql.Fields {
	return graphql.Fields{
		"kunde": &graphql.Field{
			Type: kundeType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				kunde, err := svc.FindByID(p.Context, id)
				if err != nil {
					return nil, err
				}
				return *kunde, nil
			},
		},
		"kunden": &graphql.Field{
			Type: graphql.NewList(kundeType),
			Args: graphql.FieldConfigArgument{
				"vorname": &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				criteria := model.SearchCriteria{}
				if vorname, ok := p.Args["vorname"].(string); ok {
					criteria.Vorname = vorname
				}
				return svc.Find(p.Context, criteria)
			},
		},
	}
}

// MutationFields returns the kunde mutations for the composed schema.
func MutationFields(svc service.Service) graphql.Fields {
	inputArgs := graphql.FieldConfigArgument{
		"nachname":            &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"vorname":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"geschlecht":          &graphql.ArgumentConfig{Type: graphql.String},
		"kundenart":           &graphql.ArgumentConfig{Type: graphql.String},
		"email":               &graphql.ArgumentConfig{Type: graphql.String},
		"strasse":             &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"hausnummer":          &graphql.ArgumentConfig{Type: graphql.String},
		"plz":                 &graphql.ArgumentConfig{Type: graphql.String},
		"ort":                 &graphql.ArgumentConfig{Type: graphql.String},
		"aktiv":               &graphql.ArgumentConfig{Type: graphql.Boolean},
		"registrierungsdatum": &graphql.ArgumentConfig{Type: graphql.String},
		"zusatzinfo":          &graphql.ArgumentConfig{Type: graphql.String},
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
		"createKunde": &graphql.Field{
			Type: kundeType,
			Args: createArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				kunde, err := kundeFromArgs(p.Args)
				if err != nil {
					return nil, err
				}
				created, err := svc.Create(p.Context, kunde)
				if err != nil {
					return nil, err
				}
				return *created, nil
			},
		},
		"updateKunde": &graphql.Field{
			Type: kundeType,
			Args: updateArgs,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				kunde, err := kundeFromArgs(p.Args)
				if err != nil {
					return nil, err
				}
				kunde.ID, _ = p.Args["id"].(string)
				version, _ := p.Args["version"].(int)

				updated, err := svc.Update(p.Context, kunde, strconv.Itoa(version))
				if err != nil {
					return nil, err
				}
				return *updated, nil
			},
		},
		"deleteKunde": &graphql.Field{
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

func kundeFromArgs(args map[string]interface{}) (*model.Kunde, error) {
	kunde := &model.Kunde{}

	if nachname, ok := args["nachname"].(string); ok {
		kunde.Nachname = nachname
	}
	if vorname, ok := args["vorname"].(string); ok {
		kunde.Vorname = vorname
	}
	if geschlecht, ok := args["geschlecht"].(string); ok {
		kunde.Geschlecht = model.Geschlecht(geschlecht)
	}
	if kundenart, ok := args["kundenart"].(string); ok {
		kunde.Kundenart = model.Kundenart(kundenart)
	}
	if email, ok := args["email"].(string); ok {
		kunde.Email = email
	}
	if strasse, ok := args["strasse"].(string); ok {
		kunde.Strasse = strasse
	}
	if hausnummer, ok := args["hausnummer"].(string); ok {
		kunde.Hausnummer = hausnummer
	}
	if plz, ok := args["plz"].(string); ok {
		kunde.Plz = plz
	}
	if ort, ok := args["ort"].(string); ok {
		kunde.Ort = ort
	}
	if aktiv, ok := args["aktiv"].(bool); ok {
		kunde.Aktiv = &aktiv
	}
	if datum, ok := args["registrierungsdatum"].(string); ok && datum != "" {
		t, err := time.Parse("2006-01-02", datum)
		if err != nil {
			return nil, fmt.Errorf("registrierungsdatum must be formatted YYYY-MM-DD: %w", err)
		}
		kunde.Registrierungsdatum = &t
	}
	if zusatzinfo, ok := args["zusatzinfo"].(string); ok {
		kunde.Zusatzinfo = zusatzinfo
	}

	return kunde, nil
}
