package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roadrover06/MAD-MACEDAI/models"
)

var (
	svcWashID  = primitive.NewObjectID()
	svcWaxID   = primitive.NewObjectID()
	svcArmorID = primitive.NewObjectID()
)

// testCatalog: basic wash and wax are priced for small/medium; armor
// coating is offered only for large vehicles.
func testCatalog() []models.Service {
	return []models.Service{
		{
			ID:   svcWashID,
			Name: "Basic Wash",
			Prices: map[string]float64{
				models.VarietySmall:  250,
				models.VarietyMedium: 500,
			},
		},
		{
			ID:   svcWaxID,
			Name: "Wax",
			Prices: map[string]float64{
				models.VarietySmall:  200,
				models.VarietyMedium: 300,
			},
		},
		{
			ID:   svcArmorID,
			Name: "Armor Coating",
			Prices: map[string]float64{
				models.VarietyLarge: 800,
			},
		},
	}
}

func testDraft() PaymentDraft {
	return PaymentDraft{
		CustomerName: "Juan Dela Cruz",
		CarName:      "Vios",
		PlateNumber:  "ABC-1234",
		Variety:      models.VarietyMedium,
		ServiceIDs:   []primitive.ObjectID{svcWashID, svcWaxID},
	}
}

func marshalToMap(t *testing.T, record *models.PaymentRecord) bson.M {
	t.Helper()
	data, err := bson.Marshal(record)
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(data, &doc))
	return doc
}

func floatPtr(v float64) *float64 { return &v }

func TestCalcTotalPrice(t *testing.T) {
	catalog := testCatalog()
	manual := []models.ManualService{{Name: "Interior Vacuum", Price: 150}}

	total := CalcTotalPrice([]primitive.ObjectID{svcWashID, svcWaxID}, models.VarietyMedium, manual, catalog)
	assert.Equal(t, 950.0, total)

	// No services, manual items only
	total = CalcTotalPrice(nil, models.VarietyMedium, manual, catalog)
	assert.Equal(t, 150.0, total)

	// Unknown service id contributes nothing
	total = CalcTotalPrice([]primitive.ObjectID{primitive.NewObjectID()}, models.VarietyMedium, nil, catalog)
	assert.Equal(t, 0.0, total)
}

func TestCalcTotalPriceMissingTierContributesZero(t *testing.T) {
	catalog := testCatalog()

	// Armor coating has no medium price; it silently adds 0.
	total := CalcTotalPrice([]primitive.ObjectID{svcWashID, svcArmorID}, models.VarietyMedium, nil, catalog)
	assert.Equal(t, 500.0, total)

	// At large, basic wash is the unpriced one.
	total = CalcTotalPrice([]primitive.ObjectID{svcWashID, svcArmorID}, models.VarietyLarge, nil, catalog)
	assert.Equal(t, 800.0, total)
}

func TestCalcTotalPriceVarietyChangeRecomputes(t *testing.T) {
	catalog := testCatalog()
	selected := []primitive.ObjectID{svcWashID, svcWaxID}

	assert.Equal(t, 800.0, CalcTotalPrice(selected, models.VarietyMedium, nil, catalog))
	// Same selection, new tier prices apply without re-selection.
	assert.Equal(t, 450.0, CalcTotalPrice(selected, models.VarietySmall, nil, catalog))
}

func TestApplyPercent(t *testing.T) {
	assert.Equal(t, 95.0, ApplyPercent(10, 950))
	assert.Equal(t, 0.0, ApplyPercent(0, 950))
	assert.Equal(t, 950.0, ApplyPercent(100, 950))
	// Rounds to the nearest whole peso, ties away from zero.
	assert.Equal(t, 13.0, ApplyPercent(12.5, 100))
	assert.Equal(t, 33.0, ApplyPercent(33.33, 100))
}

func TestRecomputeCommissionsTracksTotal(t *testing.T) {
	shares := []EmployeeShare{
		{ID: primitive.NewObjectID(), Name: "Pedro Santos", Percent: 10},
		{ID: primitive.NewObjectID(), Name: "Maria Reyes", Percent: 15},
	}
	referrer := &ReferrerShare{ID: primitive.NewObjectID(), Name: "Jose Cruz", Percent: 5}

	employees, ref := RecomputeCommissions(shares, referrer, 1000)
	require.Len(t, employees, 2)
	assert.Equal(t, 100.0, employees[0].Commission)
	assert.Equal(t, 150.0, employees[1].Commission)
	require.NotNil(t, ref)
	assert.Equal(t, 50.0, ref.Commission)

	// Total changes, percents stay: every derived amount follows.
	employees, ref = RecomputeCommissions(shares, referrer, 1500)
	assert.Equal(t, 150.0, employees[0].Commission)
	assert.Equal(t, 225.0, employees[1].Commission)
	assert.Equal(t, 75.0, ref.Commission)
}

func TestRecomputeCommissionsSkipsZeroIDs(t *testing.T) {
	shares := []EmployeeShare{
		{ID: primitive.NilObjectID, Name: "ghost", Percent: 50},
		{ID: primitive.NewObjectID(), Name: "Pedro Santos", Percent: 10},
	}
	employees, ref := RecomputeCommissions(shares, nil, 1000)
	require.Len(t, employees, 1)
	assert.Equal(t, "Pedro Santos", employees[0].Name)
	assert.Nil(t, ref)
}

func TestReconcileRejectsUnderpayment(t *testing.T) {
	_, err := Reconcile(950, floatPtr(900), models.PaymentMethodCash, false)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amountTendered", ve.Field)
}

func TestReconcileExactAndOverpayment(t *testing.T) {
	rec, err := Reconcile(950, floatPtr(950), models.PaymentMethodCash, false)
	require.NoError(t, err)
	assert.True(t, rec.Paid)
	assert.Equal(t, 0.0, *rec.Change)

	rec, err = Reconcile(950, floatPtr(1000), models.PaymentMethodGCash, false)
	require.NoError(t, err)
	assert.Equal(t, 50.0, *rec.Change)
	assert.Equal(t, models.PaymentMethodGCash, rec.PaymentMethod)
}

func TestReconcilePayLater(t *testing.T) {
	rec, err := Reconcile(950, nil, "", true)
	require.NoError(t, err)
	assert.False(t, rec.Paid)
	assert.Empty(t, rec.PaymentMethod)
	assert.Nil(t, rec.AmountTendered)
	assert.Nil(t, rec.Change)
}

func TestReconcileRequiresTenderedAndMethod(t *testing.T) {
	_, err := Reconcile(950, nil, models.PaymentMethodCash, false)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amountTendered", ve.Field)

	_, err = Reconcile(950, floatPtr(1000), "bitcoin", false)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "paymentMethod", ve.Field)
}

func TestAssembleRejectsMissingFields(t *testing.T) {
	catalog := testCatalog()
	cashier := Cashier{Username: "cashier1"}
	rec := Reconciliation{Paid: false}

	for field, mutate := range map[string]func(*PaymentDraft){
		"customerName": func(d *PaymentDraft) { d.CustomerName = "   " },
		"carName":      func(d *PaymentDraft) { d.CarName = "" },
		"plateNumber":  func(d *PaymentDraft) { d.PlateNumber = "\t" },
		"variety":      func(d *PaymentDraft) { d.Variety = "jumbo" },
	} {
		draft := testDraft()
		mutate(&draft)
		_, err := AssembleRecord(draft, rec, cashier, catalog, time.Now())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, field, ve.Field)
	}
}

func TestAssembleRejectsEmptyServiceSelection(t *testing.T) {
	draft := testDraft()
	draft.ServiceIDs = nil
	draft.ManualServices = nil

	_, err := AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "serviceIds", ve.Field)
}

func TestAssembleManualItemsOnly(t *testing.T) {
	draft := testDraft()
	draft.ServiceIDs = nil
	draft.ManualServices = []models.ManualService{{Name: "Engine Wash", Price: 400}}

	record, err := AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 400.0, record.Price)

	doc := marshalToMap(t, record)
	// serviceIds stays an array even with no catalog services.
	ids, ok := doc["serviceIds"].(bson.A)
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestAssemblePayLaterOmitsPaymentFields(t *testing.T) {
	rec, err := Reconcile(800, nil, "", true)
	require.NoError(t, err)

	record, err := AssembleRecord(testDraft(), rec, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	assert.False(t, record.Paid)

	doc := marshalToMap(t, record)
	assert.NotContains(t, doc, "paymentMethod")
	assert.NotContains(t, doc, "amountTendered")
	assert.NotContains(t, doc, "change")
}

func TestAssemblePaidCarriesAllPaymentFields(t *testing.T) {
	rec, err := Reconcile(800, floatPtr(1000), models.PaymentMethodCash, false)
	require.NoError(t, err)

	record, err := AssembleRecord(testDraft(), rec, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	assert.True(t, record.Paid)

	doc := marshalToMap(t, record)
	assert.Equal(t, "cash", doc["paymentMethod"])
	assert.Equal(t, 1000.0, doc["amountTendered"])
	assert.Equal(t, 200.0, doc["change"])
}

func TestAssembleReferrerPresenceIsBinary(t *testing.T) {
	catalog := testCatalog()
	cashier := Cashier{Username: "cashier1"}

	record, err := AssembleRecord(testDraft(), Reconciliation{Paid: false}, cashier, catalog, time.Now())
	require.NoError(t, err)
	doc := marshalToMap(t, record)
	assert.NotContains(t, doc, "referrer")

	draft := testDraft()
	draft.Referrer = &ReferrerShare{ID: primitive.NewObjectID(), Name: "Jose Cruz", Percent: 5}
	record, err = AssembleRecord(draft, Reconciliation{Paid: false}, cashier, catalog, time.Now())
	require.NoError(t, err)
	require.NotNil(t, record.Referrer)
	assert.Equal(t, "Jose Cruz", record.Referrer.Name)
	assert.Equal(t, 40.0, record.Referrer.Commission) // 5% of 800

	doc = marshalToMap(t, record)
	ref, ok := doc["referrer"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, "Jose Cruz", ref["name"])
}

func TestAssembleManualServicesOmittedWhenEmpty(t *testing.T) {
	record, err := AssembleRecord(testDraft(), Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	doc := marshalToMap(t, record)
	assert.NotContains(t, doc, "manualServices")

	draft := testDraft()
	draft.ManualServices = []models.ManualService{{Name: "Wax Upgrade", Price: 150}}
	record, err = AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	doc = marshalToMap(t, record)
	items, ok := doc["manualServices"].(bson.A)
	require.True(t, ok)
	assert.Len(t, items, 1)
}

func TestAssembleEmployeesAlwaysArray(t *testing.T) {
	record, err := AssembleRecord(testDraft(), Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)
	require.NotNil(t, record.Employees)

	doc := marshalToMap(t, record)
	employees, ok := doc["employees"].(bson.A)
	require.True(t, ok)
	assert.Empty(t, employees)
}

func TestAssembleRejectsBadManualItems(t *testing.T) {
	draft := testDraft()
	draft.ManualServices = []models.ManualService{{Name: " ", Price: 100}}
	_, err := AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "manualServices", ve.Field)

	draft = testDraft()
	draft.ManualServices = []models.ManualService{{Name: "Discount", Price: -50}}
	_, err = AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.ErrorAs(t, err, &ve)
}

func TestAssembleServiceNamesAndLegacyFields(t *testing.T) {
	draft := testDraft()
	draft.ManualServices = []models.ManualService{{Name: "Tire Black", Price: 100}}

	record, err := AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1", FullName: "Ana Lim"}, testCatalog(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"Basic Wash", "Wax", "Tire Black (₱100)"}, record.ServiceNames)
	assert.Equal(t, "Basic Wash, Wax, Tire Black (₱100)", record.ServiceName)
	assert.Equal(t, svcWashID, record.ServiceID)
	assert.Equal(t, "cashier1", record.Cashier)
	assert.Equal(t, "Ana Lim", record.CashierFullName)
	assert.Equal(t, 900.0, record.Price)
}

func TestMarkPaidPatchTouchesOnlyPaymentFields(t *testing.T) {
	rec, err := Reconcile(800, floatPtr(1000), models.PaymentMethodMaya, false)
	require.NoError(t, err)

	now := time.Now()
	patch := MarkPaidPatch(rec, now)

	assert.Len(t, patch, 5)
	assert.Equal(t, true, patch["paid"])
	assert.Equal(t, models.PaymentMethodMaya, patch["paymentMethod"])
	assert.Equal(t, rec.AmountTendered, patch["amountTendered"])
	assert.Equal(t, rec.Change, patch["change"])
	assert.Equal(t, now, patch["createdAt"])

	for _, identity := range []string{"customerName", "carName", "plateNumber", "serviceIds", "price", "employees", "referrer", "variety"} {
		assert.NotContains(t, patch, identity)
	}
}

func TestMarkPaidRoundTripPreservesIdentityFields(t *testing.T) {
	draft := testDraft()
	draft.Employees = []EmployeeShare{{ID: primitive.NewObjectID(), Name: "Pedro Santos", Percent: 10}}

	unpaid, err := AssembleRecord(draft, Reconciliation{Paid: false}, Cashier{Username: "cashier1"}, testCatalog(), time.Now())
	require.NoError(t, err)

	before := marshalToMap(t, unpaid)

	rec, err := Reconcile(unpaid.Price, floatPtr(unpaid.Price), models.PaymentMethodCard, false)
	require.NoError(t, err)
	patch := MarkPaidPatch(rec, time.Now().Add(time.Hour))

	// Apply the patch the way the update does and compare documents.
	after := marshalToMap(t, unpaid)
	for k, v := range patch {
		after[k] = v
	}

	for _, identity := range []string{"customerName", "carName", "plateNumber", "variety", "serviceIds", "serviceNames", "price", "employees", "cashier"} {
		assert.Equal(t, before[identity], after[identity], "identity field %s must not change", identity)
	}
	assert.Equal(t, true, after["paid"])
	assert.Equal(t, models.PaymentMethodCard, after["paymentMethod"])
}
