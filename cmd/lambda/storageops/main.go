// Lambda entrypoint exposing the storage primitives over API Gateway:
// the DynamoDB order log, the S3 file store and the Redis mailboxes.
// Deployed next to the API for operational tooling.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/example/abc-retail-cloud/internal/blob"
	infmailbox "github.com/example/abc-retail-cloud/internal/infrastructure/mailbox"
	"github.com/example/abc-retail-cloud/internal/infrastructure/store"
	"github.com/example/abc-retail-cloud/internal/mailbox"
)

var (
	orderLog *store.DynamoOrderLog
	files    blob.Store
	queues   map[string]mailbox.Mailbox
)

func init() {
	ctx := context.Background()

	dynamoClient, err := store.NewDynamoClient(ctx)
	if err != nil {
		log.Fatalf("[StorageOps] Failed to create DynamoDB client: %v", err)
	}
	orderLog = store.NewDynamoOrderLog(dynamoClient, getEnv("ORDER_LOG_TABLE", "OrderLog"))

	s3Client, err := blob.NewS3Client(ctx)
	if err != nil {
		log.Fatalf("[StorageOps] Failed to create S3 client: %v", err)
	}
	files = blob.NewS3Store(s3Client, getEnv("FILES_BUCKET", "abc-retail-files"))

	redisClient := infmailbox.NewRedisClient(getEnv("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD"))
	queues = map[string]mailbox.Mailbox{
		"orders":    infmailbox.NewRedis(redisClient, "order-queue"),
		"inventory": infmailbox.NewRedis(redisClient, "inventory-queue"),
	}

	log.Println("[StorageOps] Initialized successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Printf("[StorageOps] %s %s", req.HTTPMethod, req.Path)

	parts := splitPath(req.Path)
	if len(parts) == 0 {
		return respond(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	switch parts[0] {
	case "order-log":
		return handleOrderLog(ctx, req)
	case "files":
		return handleFiles(ctx, req, parts)
	case "queues":
		return handleQueues(ctx, req, parts)
	}
	return respond(http.StatusNotFound, map[string]string{"error": "Not found"})
}

// POST /order-log records an OrderMessage; GET /order-log lists them.
func handleOrderLog(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.HTTPMethod {
	case http.MethodPost:
		var msg mailbox.OrderMessage
		if err := json.Unmarshal([]byte(req.Body), &msg); err != nil {
			return respond(http.StatusBadRequest, map[string]string{"error": "Invalid order message"})
		}
		if err := orderLog.Record(ctx, &msg); err != nil {
			return respondError(err)
		}
		return respond(http.StatusCreated, msg)
	case http.MethodGet:
		msgs, err := orderLog.List(ctx)
		if err != nil {
			return respondError(err)
		}
		return respond(http.StatusOK, msgs)
	}
	return respond(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

// PUT /files/{key} uploads (body base64 when marked), GET /files lists,
// GET /files/{key} downloads, DELETE /files/{key} removes.
func handleFiles(ctx context.Context, req events.APIGatewayProxyRequest, parts []string) (events.APIGatewayProxyResponse, error) {
	if len(parts) == 1 {
		if req.HTTPMethod != http.MethodGet {
			return respond(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		}
		objects, err := files.List(ctx, req.QueryStringParameters["prefix"])
		if err != nil {
			return respondError(err)
		}
		return respond(http.StatusOK, objects)
	}

	key := strings.Join(parts[1:], "/")
	switch req.HTTPMethod {
	case http.MethodPut:
		body := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return respond(http.StatusBadRequest, map[string]string{"error": "Invalid base64 body"})
			}
			body = decoded
		}
		contentType := req.Headers["content-type"]
		if err := files.Upload(ctx, key, contentType, strings.NewReader(string(body))); err != nil {
			return respondError(err)
		}
		return respond(http.StatusCreated, map[string]string{"key": key})
	case http.MethodGet:
		rc, err := files.Download(ctx, key)
		if err != nil {
			return respondError(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return respondError(err)
		}
		return events.APIGatewayProxyResponse{
			StatusCode:      http.StatusOK,
			Headers:         map[string]string{"Content-Type": "application/octet-stream"},
			Body:            base64.StdEncoding.EncodeToString(data),
			IsBase64Encoded: true,
		}, nil
	case http.MethodDelete:
		if err := files.Delete(ctx, key); err != nil {
			return respondError(err)
		}
		return respond(http.StatusOK, map[string]string{"key": key})
	}
	return respond(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

// POST /queues/{name} sends, POST /queues/{name}/receive pops,
// GET /queues/{name} peeks, DELETE /queues/{name} clears.
func handleQueues(ctx context.Context, req events.APIGatewayProxyRequest, parts []string) (events.APIGatewayProxyResponse, error) {
	if len(parts) < 2 {
		return respond(http.StatusNotFound, map[string]string{"error": "Queue name required"})
	}
	queue, ok := queues[parts[1]]
	if !ok {
		return respond(http.StatusNotFound, map[string]string{"error": "Unknown queue"})
	}

	receive := len(parts) == 3 && parts[2] == "receive"

	switch {
	case req.HTTPMethod == http.MethodPost && receive:
		payload, err := queue.Receive(ctx)
		if err != nil {
			return respondError(err)
		}
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(payload),
		}, nil
	case req.HTTPMethod == http.MethodPost:
		if err := queue.Send(ctx, []byte(req.Body)); err != nil {
			return respondError(err)
		}
		return respond(http.StatusCreated, map[string]string{"status": "queued"})
	case req.HTTPMethod == http.MethodGet:
		length, err := queue.Length(ctx)
		if err != nil {
			return respondError(err)
		}
		payloads, err := queue.Peek(ctx, 10)
		if err != nil {
			return respondError(err)
		}
		messages := make([]json.RawMessage, len(payloads))
		for i, p := range payloads {
			messages[i] = json.RawMessage(p)
		}
		return respond(http.StatusOK, map[string]any{"length": length, "messages": messages})
	case req.HTTPMethod == http.MethodDelete:
		if err := queue.Clear(ctx); err != nil {
			return respondError(err)
		}
		return respond(http.StatusOK, map[string]string{"status": "cleared"})
	}
	return respond(http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}

func respondError(err error) (events.APIGatewayProxyResponse, error) {
	switch {
	case errors.Is(err, mailbox.ErrEmpty):
		return respond(http.StatusNotFound, map[string]string{"error": "Queue is empty"})
	case errors.Is(err, blob.ErrNotFound):
		return respond(http.StatusNotFound, map[string]string{"error": "File not found"})
	default:
		log.Printf("[StorageOps] Internal error: %v", err)
		return respond(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func main() {
	lambda.Start(handler)
}
