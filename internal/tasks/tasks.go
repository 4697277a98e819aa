package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/harukimori/orderdesk-api/internal/application/service"
	"github.com/harukimori/orderdesk-api/internal/config"
	"github.com/harukimori/orderdesk-api/internal/infrastructure/drive"
	"github.com/harukimori/orderdesk-api/pkg/apperror"
	"github.com/harukimori/orderdesk-api/pkg/email"
)

const (
	// TypeOrderExport renders an order to PDF, uploads it to the document
	// drive and emails it to the recipient.
	TypeOrderExport = "order:export"
)

// OrderExportPayload is the task payload for TypeOrderExport.
type OrderExportPayload struct {
	OrderID   string `json:"order_id"`
	Recipient string `json:"recipient"`
}

func redisClientOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient creates an asynq client on the shared Redis connection settings.
func NewClient(cfg *config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisClientOpt(cfg))
}

// Enqueuer schedules background order work.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates a new enqueuer
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueOrderExport schedules the export pipeline for one order. The task id
// is derived from the order id so exports of the same order never overlap; a
// second request while one is pending reports a conflict.
func (e *Enqueuer) EnqueueOrderExport(ctx context.Context, orderID, recipient string) error {
	payload, err := json.Marshal(OrderExportPayload{OrderID: orderID, Recipient: recipient})
	if err != nil {
		return fmt.Errorf("failed to marshal export payload: %w", err)
	}

	task := asynq.NewTask(TypeOrderExport, payload)
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.TaskID("export:"+orderID),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return apperror.NewConflictError("An export for this order is already in progress")
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue export task: %w", err)
	}
	return nil
}

// TaskProcessor executes background order tasks.
type TaskProcessor struct {
	orders *service.OrderService
	export *service.ExportService
	drive  drive.Drive
	mailer *email.EmailService
}

// NewTaskProcessor creates a new task processor
func NewTaskProcessor(orders *service.OrderService, export *service.ExportService, d drive.Drive, mailer *email.EmailService) *TaskProcessor {
	return &TaskProcessor{
		orders: orders,
		export: export,
		drive:  d,
		mailer: mailer,
	}
}

// HandleOrderExportTask renders the PDF, uploads it and hands it off by email.
func (p *TaskProcessor) HandleOrderExportTask(ctx context.Context, t *asynq.Task) error {
	var payload OrderExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal export payload: %v: %w", err, asynq.SkipRetry)
	}

	order, err := p.orders.GetOrder(ctx, payload.OrderID)
	if err != nil {
		if apperror.GetAppError(err).Code == http.StatusNotFound {
			// The order was deleted after the export was scheduled.
			log.Printf("[TASK] order %s no longer exists, skipping export", payload.OrderID)
			return nil
		}
		return err
	}

	pdf, filename, err := p.export.GeneratePDF(order)
	if err != nil {
		return fmt.Errorf("failed to render order %s: %w", order.ID, err)
	}

	key, err := p.drive.Upload(ctx, filename, pdf, "application/pdf")
	if err != nil {
		return fmt.Errorf("failed to upload order %s: %w", order.ID, err)
	}
	log.Printf("[TASK] order %s uploaded to %s", order.ID, key)

	if payload.Recipient != "" {
		doc := email.OrderDocument{
			ID:              order.ID,
			SupplierName:    order.SupplierName,
			OrderDate:       order.OrderDate,
			CompletionMonth: order.CompletionMonth,
			PaymentTerms:    order.PaymentTerms,
		}
		if err := p.mailer.SendOrderDocument(payload.Recipient, doc, pdf, filename); err != nil {
			return fmt.Errorf("failed to email order %s: %w", order.ID, err)
		}
	}

	return nil
}

// SetupServer builds the asynq worker server and its task routes.
func SetupServer(cfg *config.Config, processor *TaskProcessor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(
		redisClientOpt(&cfg.Redis),
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Printf("[TASK] %s failed (retry %d/%d): %v", task.Type(), retried, maxRetry, err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOrderExport, processor.HandleOrderExportTask)

	return srv, mux
}
