// Package mongostore contiene lo común a los repositorios MongoDB: outbox y
// traducción de criterios neutrales a filtros BSON.
package mongostore

import (
	"fmt"
	"regexp"
	"strings"

	sharedDomain "github.com/davicafu/matafuegos/shared/domain"
	"github.com/davicafu/matafuegos/shared/platform/persistence"
	sharedQuery "github.com/davicafu/matafuegos/shared/platform/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ToFilter traduce criterios a un filtro BSON. fields es la lista blanca campo -> atributo.
func ToFilter(crit sharedDomain.Criteria, fields persistence.Columns) (bson.M, error) {
	if sharedDomain.IsEmpty(crit) {
		return bson.M{}, nil
	}

	if comp, ok := crit.(sharedDomain.CompositeCriteria); ok {
		parts := bson.A{}
		for _, sub := range comp.Criterias {
			f, err := ToFilter(sub, fields)
			if err != nil {
				return nil, err
			}
			if len(f) > 0 {
				parts = append(parts, f)
			}
		}
		if len(parts) == 1 {
			return parts[0].(bson.M), nil
		}
		if comp.Operator == sharedDomain.OpOr {
			return bson.M{"$or": parts}, nil
		}
		return bson.M{"$and": parts}, nil
	}

	parts := bson.A{}
	for _, c := range crit.ToConditions() {
		f, err := criterionFilter(c, fields)
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	if len(parts) == 1 {
		return parts[0].(bson.M), nil
	}
	return bson.M{"$and": parts}, nil
}

func criterionFilter(c sharedDomain.Criterion, fields persistence.Columns) (bson.M, error) {
	field, ok := fields.Column(c.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", persistence.ErrUnknownField, c.Field)
	}

	// Mapeo de operadores genéricos a operadores de MongoDB
	switch c.Op {
	case sharedDomain.OpEq:
		return bson.M{field: bson.M{"$eq": c.Value}}, nil
	case sharedDomain.OpNeq:
		return bson.M{field: bson.M{"$ne": c.Value}}, nil
	case sharedDomain.OpGt:
		return bson.M{field: bson.M{"$gt": c.Value}}, nil
	case sharedDomain.OpGte:
		return bson.M{field: bson.M{"$gte": c.Value}}, nil
	case sharedDomain.OpLt:
		return bson.M{field: bson.M{"$lt": c.Value}}, nil
	case sharedDomain.OpLte:
		return bson.M{field: bson.M{"$lte": c.Value}}, nil
	case sharedDomain.OpIn:
		return bson.M{field: bson.M{"$in": c.Value}}, nil
	case sharedDomain.OpLike, sharedDomain.OpILike:
		pattern := likeToRegex(fmt.Sprint(c.Value))
		if c.Op == sharedDomain.OpILike {
			// Para ILIKE, añadimos la opción 'i' de insensibilidad a mayúsculas
			return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}, nil
		}
		return bson.M{field: bson.M{"$regex": pattern}}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q", c.Op)
}

// likeToRegex convierte un patrón LIKE (% y _) en una regex anclada.
func likeToRegex(like string) string {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range like {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return b.String()
}

// FindOptions arma orden y paginación por offset.
func FindOptions(sort sharedQuery.Sort, p sharedQuery.Pagination, fields persistence.Columns, fallback string) (*options.FindOptions, error) {
	opts := options.Find()

	if pg, ok := p.(sharedQuery.OffsetPagination); ok {
		if pg.Offset > 0 {
			opts.SetSkip(int64(pg.Offset))
		}
		if pg.Limit > 0 {
			opts.SetLimit(int64(pg.Limit))
		}
	}

	field := fallback
	if sort.Field != "" {
		f, ok := fields.Column(sort.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s", persistence.ErrUnknownField, sort.Field)
		}
		field = f
	}
	if field != "" {
		sortDir := 1 // Ascendente por defecto
		if sort.Desc {
			sortDir = -1
		}
		opts.SetSort(bson.D{{Key: field, Value: sortDir}})
	}
	return opts, nil
}
