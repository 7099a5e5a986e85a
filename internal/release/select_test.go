package release

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIndex(t *testing.T) {
	records := []Record{{Version: "0.9.0"}, {Version: "1.0.0"}, {Version: "1.1.0"}}

	tests := []struct {
		app  string
		want int
	}{
		{"1.0.0", 1},
		{"0.1.0", 0},
		{"0.9.0", 0},
		{"0.9.5", 1},
		{"1.1.0", 2},
		{"1.0.1", 2},
		{"v1.0.0", 1},
		{"2.0.0", 0},
		{"1.1.0-rc.1", 2},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultIndex(records, tt.app))
		})
	}
}

func TestDefaultIndex_Empty(t *testing.T) {
	assert.Equal(t, 0, DefaultIndex(nil, "1.0.0"))
}

func TestDefaultIndex_SmallestQualifyingIndex(t *testing.T) {
	records := make([]Record, 0, 20)
	for minor := 0; minor < 20; minor++ {
		records = append(records, Record{Version: fmt.Sprintf("1.%d.0", minor)})
	}

	for want := 0; want < len(records); want++ {
		app := records[want].Version
		got := DefaultIndex(records, app)
		assert.Equal(t, want, got, "app version %s", app)

		for i := 0; i < got; i++ {
			v, _ := ParseVersion(records[i].Version)
			a, _ := ParseVersion(app)
			assert.True(t, v.LessThan(a), "records before the default must be older than the app")
		}
	}
}
