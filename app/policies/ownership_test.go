package policies_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staydesk/staydesk/app/policies"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name          string
		actor, owner  uint
		wantForbidden bool
	}{
		{"owner", 7, 7, false},
		{"other user", 7, 8, true},
		{"anonymous", 0, 0, true},
		{"anonymous on owned record", 0, 3, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := policies.Authorize(tc.actor, tc.owner)
			if tc.wantForbidden {
				assert.ErrorIs(t, err, policies.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
