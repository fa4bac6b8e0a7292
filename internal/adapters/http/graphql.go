package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/core/ports"
)

// activityMap flattens an activity for GraphQL resolution.
func activityMap(a *domain.Activity) map[string]interface{} {
	m := map[string]interface{}{
		"id":          a.ID,
		"title":       a.Title,
		"description": a.Description,
		"location":    a.Location,
		"map_url":     a.MapURL,
		"latitude":    a.Latitude,
		"longitude":   a.Longitude,
		"start_date":  a.StartDate.Format("2006-01-02T15:04:05Z07:00"),
		"end_date":    a.EndDate.Format("2006-01-02T15:04:05Z07:00"),
		"status":      string(a.Status),
		"category":    string(a.Category),
		"price":       a.Price,
		"capacity":    a.Capacity,
	}
	if a.Creator != nil {
		m["creator"] = map[string]interface{}{
			"id":            a.Creator.ID,
			"name":          a.Creator.Name,
			"email":         a.Creator.Email,
			"profile_image": a.Creator.ProfileImage,
		}
	}
	return m
}

// buildSchema creates the read-only GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	userSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserSummary",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"email":         &graphql.Field{Type: graphql.String},
			"profile_image": &graphql.Field{Type: graphql.String},
		},
	})

	activityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Activity",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: graphql.String},
			"map_url":     &graphql.Field{Type: graphql.String},
			"latitude":    &graphql.Field{Type: graphql.Float},
			"longitude":   &graphql.Field{Type: graphql.Float},
			"start_date":  &graphql.Field{Type: graphql.String},
			"end_date":    &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"category":    &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
			"capacity":    &graphql.Field{Type: graphql.Int},
			"distance":    &graphql.Field{Type: graphql.Float},
			"creator":     &graphql.Field{Type: userSummaryType},
		},
	})

	reviewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Review",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"user_id":     &graphql.Field{Type: graphql.String},
			"activity_id": &graphql.Field{Type: graphql.String},
			"rating":      &graphql.Field{Type: graphql.Int},
			"comment":     &graphql.Field{Type: graphql.String},
			"user":        &graphql.Field{Type: userSummaryType},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"email":         &graphql.Field{Type: graphql.String},
			"profile_image": &graphql.Field{Type: graphql.String},
			"role":          &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"activitiesNearby": &graphql.Field{
				Type:        graphql.NewList(activityType),
				Description: "Find upcoming activities near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"maxDistance": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 10.0},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					maxDistance := p.Args["maxDistance"].(float64)
					page := p.Args["page"].(int)
					limit := p.Args["limit"].(int)

					res, err := deps.Activities.FindNearby(p.Context, lat, lng, maxDistance, page, limit)
					if err != nil {
						return nil, err
					}

					var out []map[string]interface{}
					for i := range res.Activities {
						m := activityMap(&res.Activities[i].Activity)
						m["distance"] = res.Activities[i].Distance
						out = append(out, m)
					}
					return out, nil
				},
			},
			"activity": &graphql.Field{
				Type:        activityType,
				Description: "Get an activity by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					a, err := deps.Activities.GetByID(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return activityMap(a), nil
				},
			},
			"reviews": &graphql.Field{
				Type:        graphql.NewList(reviewType),
				Description: "Reviews of an activity",
				Args: graphql.FieldConfigArgument{
					"activity_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := ports.ReviewFilter{ActivityID: p.Args["activity_id"].(string)}
					page := p.Args["page"].(int)
					limit := p.Args["limit"].(int)

					reviews, _, err := deps.Reviews.List(p.Context, filter, page, limit)
					if err != nil {
						return nil, err
					}

					var out []map[string]interface{}
					for _, r := range reviews {
						m := map[string]interface{}{
							"id":          r.ID,
							"user_id":     r.UserID,
							"activity_id": r.ActivityID,
							"rating":      r.Rating,
							"comment":     r.Comment,
						}
						if r.User != nil {
							m["user"] = map[string]interface{}{
								"id":            r.User.ID,
								"name":          r.User.Name,
								"email":         r.User.Email,
								"profile_image": r.User.ProfileImage,
							}
						}
						out = append(out, m)
					}
					return out, nil
				},
			},
			"user": &graphql.Field{
				Type:        userType,
				Description: "Get a user profile by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, err := deps.Users.GetByID(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"id":            u.ID,
						"name":          u.Name,
						"email":         u.Email,
						"profile_image": u.ProfileImage,
						"role":          string(u.Role),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
