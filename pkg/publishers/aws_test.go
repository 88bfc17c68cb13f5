package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func sampleEvent() Event {
	return NewEvent("getData", 1, "PXNE660720HMCXTN06", nil, json.RawMessage(`{"nombre":"ENRIQUE"}`), nil)
}

func TestSQSPublisherSetsAttributes(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", typ: TypeSQS, queueURL: "https://sqs/queue", client: client, log: noopLogger{}}

	require.NoError(t, pub.Publish(context.Background(), sampleEvent()))
	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs/queue", aws.ToString(client.input.QueueUrl))

	attr, ok := client.input.MessageAttributes["operation"]
	require.True(t, ok)
	assert.Equal(t, "getData", aws.ToString(attr.StringValue))
	assert.Equal(t, "String", aws.ToString(attr.DataType))
	assert.Equal(t, "1", aws.ToString(client.input.MessageAttributes["api_version"].StringValue))
	assert.Contains(t, aws.ToString(client.input.MessageBody), `"curp":"PXNE660720HMCXTN06"`)
}

func TestSQSPublisherPropagatesErrors(t *testing.T) {
	pub := &sqsPublisher{id: "queue", client: &fakeSQSClient{err: errors.New("boom")}, log: noopLogger{}}
	assert.Error(t, pub.Publish(context.Background(), sampleEvent()))
}

func TestSNSPublisherSetsAttributes(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", typ: TypeSNS, topicARN: "arn:aws:sns:::topic", client: client, log: noopLogger{}}

	evt := NewEvent("calculate", 2, "", map[string]string{"names": "Enrique"}, nil, errors.New("bad request: entity"))
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "arn:aws:sns:::topic", aws.ToString(client.input.TopicArn))
	assert.Equal(t, "error", aws.ToString(client.input.MessageAttributes["outcome"].StringValue))
	assert.Contains(t, aws.ToString(client.input.Message), `"error":"bad request: entity"`)
}

func TestSNSPublisherPropagatesErrors(t *testing.T) {
	pub := &snsPublisher{id: "topic", client: &fakeSNSClient{err: errors.New("boom")}, log: noopLogger{}}
	assert.Error(t, pub.Publish(context.Background(), sampleEvent()))
}
