package helpers

import (
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
	sort  map[string]interface{}
}

func NewMongoPaginate(limit, page int64, sort map[string]interface{}) *mongoPaginate {
	if sort == nil {
		sort = make(map[string]interface{})
	}

	return &mongoPaginate{
		limit: limit,
		page:  page,
		sort:  sort,
	}
}

// BuildFindOptions translates limit/page into Mongo find options. A zero
// limit means an unbounded query with no skip.
func (mp *mongoPaginate) BuildFindOptions() *options.FindOptions {
	opts := options.Find()

	if len(mp.sort) > 0 {
		opts.SetSort(mp.sort)
	}

	if mp.limit > 0 {
		skip := mp.page * mp.limit
		opts.SetLimit(mp.limit)
		opts.SetSkip(skip)
	}

	return opts
}
