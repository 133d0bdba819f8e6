package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/api"
)

func TestCompute(t *testing.T) {
	t.Run("empty input yields empty stats", func(t *testing.T) {
		stats := Compute(nil)
		assert.Equal(t, 0, stats.TotalEmployees)
		assert.Empty(t, stats.Departments)
		assert.Empty(t, stats.Roles)
	})

	t.Run("groups by department and role with percentages", func(t *testing.T) {
		employees := []api.Employee{
			{ID: "1", DepartmentName: "Engineering", Role: float64(1)},
			{ID: "2", DepartmentName: "Engineering", Role: float64(2)},
			{ID: "3", DepartmentName: "Sales", Role: float64(1)},
			{ID: "4", DepartmentName: "", Role: float64(3)},
		}

		stats := Compute(employees)

		assert.Equal(t, 4, stats.TotalEmployees)
		require.Len(t, stats.Departments, 3)
		assert.Equal(t, Bucket{Label: "Engineering", Count: 2, Percent: 50}, stats.Departments[0])
		assert.Equal(t, Bucket{Label: "Sales", Count: 1, Percent: 25}, stats.Departments[1])
		assert.Equal(t, Bucket{Label: "Unassigned", Count: 1, Percent: 25}, stats.Departments[2])

		require.Len(t, stats.Roles, 3)
		assert.Equal(t, Bucket{Label: "Employee", Count: 2, Percent: 50}, stats.Roles[0])
	})

	t.Run("unrecognized roles count as employee", func(t *testing.T) {
		employees := []api.Employee{
			{ID: "1", Role: "InvalidRole"},
			{ID: "2", Role: float64(1)},
		}

		stats := Compute(employees)

		require.Len(t, stats.Roles, 1)
		assert.Equal(t, Bucket{Label: "Employee", Count: 2, Percent: 100}, stats.Roles[0])
	})
}

type pagedLister struct {
	pages [][]api.Employee
	err   error
}

func (l *pagedLister) ListEmployees(_ context.Context, params api.ListEmployeesParams) (*api.EmployeePage, error) {
	if l.err != nil {
		return nil, l.err
	}
	if params.Page < 1 || params.Page > len(l.pages) {
		return &api.EmployeePage{TotalPages: len(l.pages)}, nil
	}
	return &api.EmployeePage{
		Items:      l.pages[params.Page-1],
		Page:       params.Page,
		TotalPages: len(l.pages),
	}, nil
}

func TestFetchAll(t *testing.T) {
	t.Run("single page short-circuits", func(t *testing.T) {
		lister := &pagedLister{pages: [][]api.Employee{{{ID: "1"}, {ID: "2"}}}}

		all, err := FetchAll(context.Background(), lister, 50)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("reassembles pages in order", func(t *testing.T) {
		lister := &pagedLister{pages: [][]api.Employee{
			{{ID: "1"}, {ID: "2"}},
			{{ID: "3"}, {ID: "4"}},
			{{ID: "5"}},
		}}

		all, err := FetchAll(context.Background(), lister, 2)
		require.NoError(t, err)

		ids := make([]string, len(all))
		for i, e := range all {
			ids[i] = e.ID
		}
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		lister := &pagedLister{err: errors.New("backend down")}

		_, err := FetchAll(context.Background(), lister, 2)
		assert.EqualError(t, err, "backend down")
	})
}
