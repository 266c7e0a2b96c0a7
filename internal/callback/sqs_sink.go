package callback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// SendMessageAPI is the subset of the SQS client used by SQSSink.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSink mirrors reports onto a queue for downstream analysis.
type SQSSink struct {
	client   SendMessageAPI
	queueURL string
}

func NewSQSSink(client SendMessageAPI, queueURL string) *SQSSink {
	if client == nil {
		panic("callback: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("callback: SQS queueURL cannot be empty")
	}
	return &SQSSink{client: client, queueURL: queueURL}
}

func (s *SQSSink) Name() string { return "sqs" }

func (s *SQSSink) Send(ctx context.Context, report Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("callback: marshal report: %w", err)
	}
	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"sessionId": {DataType: aws.String("String"), StringValue: aws.String(report.SessionID)},
		},
	})
	if err != nil {
		return fmt.Errorf("callback: failed to send SQS message: %w", err)
	}
	return nil
}
