package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Course", "Day"},
		Rows: []map[string]string{
			{"Section": "CS-A", "Course": "Algorithms", "Day": "Monday"},
			{"Section": "CS-B", "Course": "Databases", "Day": "Tuesday"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	assert.Equal(t, "Section,Course,Day\nCS-A,Algorithms,Monday\nCS-B,Databases,Tuesday\n", string(out))
}

func TestCSVRenderMissingColumnsStayEmpty(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Score"},
		Rows:    []map[string]string{{"Section": "CS-A"}},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	assert.Equal(t, "Section,Score\nCS-A,\n", string(out))
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRenderProducesDocument(t *testing.T) {
	data := Dataset{
		Headers: []string{"Section", "Course"},
		Rows:    []map[string]string{{"Section": "CS-A", "Course": "Algorithms"}},
	}

	out, err := NewPDFExporter().Render(data, "Timetable")
	require.NoError(t, err)

	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "Timetable")
	assert.Error(t, err)
}
