package inventory

import (
	"context"
	"testing"

	"github.com/example/abc-retail-cloud/internal/domain/catalog"
	memmailbox "github.com/example/abc-retail-cloud/internal/infrastructure/mailbox"
	"github.com/example/abc-retail-cloud/internal/infrastructure/store/mocks"
	"github.com/example/abc-retail-cloud/internal/mailbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger() (*Ledger, *mocks.MockProductStore, *memmailbox.Memory) {
	products := mocks.NewMockProductStore()
	mb := memmailbox.NewMemory()
	queue := mailbox.NewInventoryQueue(mb)
	return NewLedger(products, queue, nil), products, mb
}

func seedProduct(products *mocks.MockProductStore, id string, stock int) {
	products.Seed(catalog.Product{ID: id, Name: "Widget", Price: 1000, StockQuantity: stock})
}

// ============================================
// Adjust Tests
// ============================================

func TestLedger_Adjust_Restock(t *testing.T) {
	ledger, products, _ := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)

	msg, err := ledger.Adjust(ctx, "prod-1", 25, mailbox.OpRestock, "weekly delivery", "admin")

	require.NoError(t, err)
	assert.Equal(t, 10, msg.PreviousStock)
	assert.Equal(t, 35, msg.NewStock)
	assert.Equal(t, 25, msg.QuantityChange)
	assert.Equal(t, mailbox.OpRestock, msg.OperationType)
	assert.Equal(t, "admin", msg.ProcessedBy)
	assert.NotEmpty(t, msg.MessageID)

	p, err := products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 35, p.StockQuantity)
}

func TestLedger_Adjust_ClampsBelowZero(t *testing.T) {
	ledger, products, _ := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 30)

	msg, err := ledger.Adjust(ctx, "prod-1", -100, mailbox.OpSale, "", "")

	require.NoError(t, err)
	assert.Equal(t, 30, msg.PreviousStock)
	assert.Equal(t, 0, msg.NewStock)
	assert.Equal(t, -30, msg.QuantityChange, "recorded change shrinks to what was actually removed")
	assert.Equal(t, "system", msg.ProcessedBy)

	p, err := products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
}

func TestLedger_Adjust_ZeroChange(t *testing.T) {
	ledger, products, mb := newTestLedger()
	seedProduct(products, "prod-1", 10)

	_, err := ledger.Adjust(context.Background(), "prod-1", 0, mailbox.OpAdjustment, "", "")

	assert.ErrorIs(t, err, ErrZeroChange)
	n, _ := mb.Length(context.Background())
	assert.Zero(t, n)
}

func TestLedger_Adjust_UnknownProduct(t *testing.T) {
	ledger, _, _ := newTestLedger()

	_, err := ledger.Adjust(context.Background(), "nope", 5, mailbox.OpRestock, "", "")

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestLedger_Adjust_AuditBeforeStockWrite(t *testing.T) {
	ledger, products, mb := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)

	_, err := ledger.Adjust(ctx, "prod-1", -4, mailbox.OpSale, "order 7", "")
	require.NoError(t, err)

	n, _ := mb.Length(ctx)
	assert.Equal(t, 1, n)

	// Audit landed and stock write followed.
	assert.Equal(t, []string{"prod-1"}, products.UpdateCalls)
}

func TestLedger_Adjust_SendFailureSkipsStockWrite(t *testing.T) {
	ledger, products, mb := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)
	mb.SendErr = assert.AnError

	_, err := ledger.Adjust(ctx, "prod-1", -4, mailbox.OpSale, "", "")

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, products.UpdateCalls, "stock must not move when the audit send fails")

	p, _ := products.Get(ctx, "prod-1")
	assert.Equal(t, 10, p.StockQuantity)
}

// ============================================
// Queue Wrapper Tests
// ============================================

func TestLedger_ReceiveAndLength(t *testing.T) {
	ledger, products, _ := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)

	_, err := ledger.Adjust(ctx, "prod-1", 5, mailbox.OpRestock, "", "")
	require.NoError(t, err)

	n, err := ledger.QueueLength(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	msg, err := ledger.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "prod-1", msg.ProductID)

	_, err = ledger.Receive(ctx)
	assert.ErrorIs(t, err, mailbox.ErrEmpty)
}

func TestLedger_PeekDoesNotConsume(t *testing.T) {
	ledger, products, _ := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)

	_, err := ledger.Adjust(ctx, "prod-1", 5, mailbox.OpRestock, "", "")
	require.NoError(t, err)

	msgs, err := ledger.Peek(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	n, _ := ledger.QueueLength(ctx)
	assert.Equal(t, 1, n)
}

func TestLedger_ClearQueue(t *testing.T) {
	ledger, products, _ := newTestLedger()
	ctx := context.Background()
	seedProduct(products, "prod-1", 10)

	_, err := ledger.Adjust(ctx, "prod-1", 5, mailbox.OpRestock, "", "")
	require.NoError(t, err)

	require.NoError(t, ledger.ClearQueue(ctx))

	n, _ := ledger.QueueLength(ctx)
	assert.Zero(t, n)
}
