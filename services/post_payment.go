package services

import (
	"context"
	"fmt"
	"log"

	"github.com/roadrover06/MAD-MACEDAI/models"
	"github.com/roadrover06/MAD-MACEDAI/repositories"
)

// LoyaltyPointsPerWash is the accrual applied once per paid
// transaction when the customer matches a loyalty registration.
const LoyaltyPointsPerWash = 0.25

// postPaymentTask is one independently-failable side effect executed
// after the primary record write succeeds.
type postPaymentTask struct {
	name string
	run  func(ctx context.Context) error
}

// PostPaymentRunner executes the best-effort side effects of a paid
// transaction: chemical stock decrements and loyalty point accrual.
// Failures are logged and swallowed; payment correctness never depends
// on inventory or loyalty availability, and nothing here is retried.
type PostPaymentRunner struct {
	chemicals *repositories.ChemicalRepository
	loyalty   *repositories.LoyaltyRepository
}

func NewPostPaymentRunner(chemicals *repositories.ChemicalRepository, loyalty *repositories.LoyaltyRepository) *PostPaymentRunner {
	return &PostPaymentRunner{chemicals: chemicals, loyalty: loyalty}
}

// Run executes the side effects for one paid record. The catalog
// snapshot supplies the per-service, per-variety chemical usage table.
// One task failing never affects another or the already-committed
// record.
func (r *PostPaymentRunner) Run(ctx context.Context, record *models.PaymentRecord, catalog []models.Service) {
	tasks := r.buildTasks(record, catalog)
	for _, task := range tasks {
		if err := task.run(ctx); err != nil {
			log.Printf("Post-payment task %s failed for record %s: %v", task.name, record.ID.Hex(), err)
		}
	}
}

func (r *PostPaymentRunner) buildTasks(record *models.PaymentRecord, catalog []models.Service) []postPaymentTask {
	var tasks []postPaymentTask

	for _, serviceID := range record.ServiceIDs {
		var service *models.Service
		for i := range catalog {
			if catalog[i].ID == serviceID {
				service = &catalog[i]
				break
			}
		}
		if service == nil || service.Chemicals == nil {
			continue
		}
		for chemicalID, chem := range service.Chemicals {
			usage := chem.Usage[record.Variety]
			if usage <= 0 {
				continue
			}
			chemicalID, usage := chemicalID, usage
			tasks = append(tasks, postPaymentTask{
				name: fmt.Sprintf("decrement-stock:%s", chemicalID),
				run: func(ctx context.Context) error {
					return r.chemicals.DecrementStock(ctx, chemicalID, usage)
				},
			})
		}
	}

	customerName, plateNumber := record.CustomerName, record.PlateNumber
	tasks = append(tasks, postPaymentTask{
		name: "loyalty-accrual",
		run: func(ctx context.Context) error {
			matched, err := r.loyalty.FindMatch(ctx, customerName, plateNumber)
			if err != nil {
				return err
			}
			if matched == nil {
				// Not a registered customer; skip silently.
				return nil
			}
			return r.loyalty.IncrementPoints(ctx, matched.ID, LoyaltyPointsPerWash)
		},
	})

	return tasks
}
