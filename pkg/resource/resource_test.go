package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staydesk/staydesk/pkg/orm"
)

type item struct {
	ID   uint
	Name string
}

func itemResource(i item) Map { return Map{"id": i.ID, "name": i.Name} }

func TestCollectionEncodesEmptyAsArray(t *testing.T) {
	out, err := json.Marshal(Collection(itemResource, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, Optional(itemResource, nil))
	assert.Equal(t, Map{"id": uint(3), "name": "Soup"}, Optional(itemResource, &item{ID: 3, Name: "Soup"}))
}

func TestPaginated(t *testing.T) {
	page := orm.Pagination{}
	out := Paginated(itemResource, []item{{ID: 1, Name: "Tea"}}, page)

	assert.Len(t, out["data"], 1)
	assert.Equal(t, page, out["pagination"])
}
