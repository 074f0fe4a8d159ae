package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

// buildTasks only constructs closures; the repositories are not touched
// until a task runs, so nil repos are fine here.
func TestBuildTasksChemicalUsage(t *testing.T) {
	runner := NewPostPaymentRunner(nil, nil)

	washID := primitive.NewObjectID()
	catalog := []models.Service{
		{
			ID:   washID,
			Name: "Basic Wash",
			Chemicals: map[string]models.ChemicalUsage{
				"shampoo": {
					Name: "Car Shampoo",
					Usage: map[string]float64{
						models.VarietySmall:  50,
						models.VarietyMedium: 80,
					},
				},
				"degreaser": {
					Name: "Degreaser",
					Usage: map[string]float64{
						models.VarietyLarge: 30,
					},
				},
			},
		},
	}
	record := &models.PaymentRecord{
		CustomerName: "Juan Dela Cruz",
		PlateNumber:  "ABC-1234",
		Variety:      models.VarietyMedium,
		ServiceIDs:   []primitive.ObjectID{washID},
	}

	tasks := runner.buildTasks(record, catalog)

	// One decrement for shampoo (medium usage 80); degreaser has no
	// medium usage so it is skipped. Loyalty accrual is always queued.
	require.Len(t, tasks, 2)

	var names []string
	for _, task := range tasks {
		names = append(names, task.name)
	}
	assert.Contains(t, names, "decrement-stock:shampoo")
	assert.Contains(t, names, "loyalty-accrual")
	for _, name := range names {
		assert.False(t, strings.Contains(name, "degreaser"))
	}
}

func TestBuildTasksNoServicesStillAccruesLoyalty(t *testing.T) {
	runner := NewPostPaymentRunner(nil, nil)
	record := &models.PaymentRecord{
		CustomerName: "Juan Dela Cruz",
		PlateNumber:  "ABC-1234",
		Variety:      models.VarietyMedium,
	}

	tasks := runner.buildTasks(record, nil)
	require.Len(t, tasks, 1)
	assert.Equal(t, "loyalty-accrual", tasks[0].name)
}

func TestBuildTasksUnknownServiceSkipped(t *testing.T) {
	runner := NewPostPaymentRunner(nil, nil)
	record := &models.PaymentRecord{
		Variety:    models.VarietyMedium,
		ServiceIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}

	tasks := runner.buildTasks(record, testCatalog())
	require.Len(t, tasks, 1)
	assert.Equal(t, "loyalty-accrual", tasks[0].name)
}
