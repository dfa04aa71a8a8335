package mongostore

import (
	"fmt"

	"ledger-core/internal/store"

	"go.mongodb.org/mongo-driver/bson"
)

// toBSON lowers a store.Filter tree into the bson.M the driver expects.
// This is the one place the typed filter algebra touches an untyped
// document shape.
func toBSON(f store.Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	switch v := f.(type) {
	case store.EqFilter:
		return bson.M{v.Field: v.Value}
	case store.NeFilter:
		return bson.M{v.Field: bson.M{"$ne": v.Value}}
	case store.LtFilter:
		return bson.M{v.Field: bson.M{"$lt": v.Value}}
	case store.NotInFilter:
		return bson.M{v.Field: bson.M{"$nin": v.Values}}
	case store.InFilter:
		return bson.M{v.Field: bson.M{"$in": v.Values}}
	case store.RegexFilter:
		return bson.M{v.Field: bson.M{"$regex": v.Pattern}}
	case store.AndFilter:
		parts := make([]bson.M, 0, len(v.Filters))
		for _, sub := range v.Filters {
			parts = append(parts, toBSON(sub))
		}
		return bson.M{"$and": parts}
	default:
		panic(fmt.Sprintf("mongostore: unknown filter type %T", f))
	}
}

// toUpdateBSON lowers a store.Mutation tree into a bson.M update document,
// grouping sibling mutations under their shared operator key as Mongo
// requires (e.g. a single top-level "$set" object for every $set field).
func toUpdateBSON(m store.Mutation) bson.M {
	update := bson.M{}
	apply(m, update)
	return update
}

func apply(m store.Mutation, update bson.M) {
	switch v := m.(type) {
	case store.IncMutation:
		mergeOperator(update, "$inc", v.Field, v.By)
	case store.PushMutation:
		mergeOperator(update, "$push", v.Field, v.Value)
	case store.PullMutation:
		mergeOperator(update, "$pull", v.Field, v.Value)
	case store.SetMutation:
		mergeOperator(update, "$set", v.Field, v.Value)
	case store.CurrentDateMutation:
		mergeOperator(update, "$currentDate", v.Field, true)
	case store.CombinedMutation:
		for _, sub := range v.Mutations {
			apply(sub, update)
		}
	default:
		panic(fmt.Sprintf("mongostore: unknown mutation type %T", m))
	}
}

func mergeOperator(update bson.M, operator, field string, value any) {
	group, ok := update[operator].(bson.M)
	if !ok {
		group = bson.M{}
		update[operator] = group
	}
	group[field] = value
}
