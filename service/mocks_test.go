package service

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/lalallama/proposaldesk/datasource"
	"github.com/lalallama/proposaldesk/model"
	"github.com/stretchr/testify/mock"
)

type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) CreateEvaluation(ctx context.Context, files datasource.EvaluationPayload) (datasource.Document, error) {
	args := m.Called(ctx, files)
	return args.Get(0).(datasource.Document), args.Error(1)
}

func (m *MockDataSource) GetReport(ctx context.Context, proposalID string) (datasource.Document, error) {
	args := m.Called(ctx, proposalID)
	return args.Get(0).(datasource.Document), args.Error(1)
}

func (m *MockDataSource) DownloadReportPDF(ctx context.Context, proposalID string) ([]byte, error) {
	args := m.Called(ctx, proposalID)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDataSource) SendChatMessage(ctx context.Context, proposalID string, message string, questionCount int) (datasource.Document, error) {
	args := m.Called(ctx, proposalID, message, questionCount)
	return args.Get(0).(datasource.Document), args.Error(1)
}

func (m *MockDataSource) GetChatHistory(ctx context.Context, proposalID string) (datasource.Document, error) {
	args := m.Called(ctx, proposalID)
	return args.Get(0).(datasource.Document), args.Error(1)
}

func (m *MockDataSource) Mode() model.Mode {
	return model.ModeMock
}

type MockCallJournal struct {
	mock.Mock
}

func (m *MockCallJournal) AddCall(ctx context.Context, operation model.Operation, resource string, mode model.Mode, succeeded bool) error {
	args := m.Called(operation, resource, mode, succeeded)
	return args.Error(0)
}

type MockSecretGetter struct {
	mock.Mock
}

func (m *MockSecretGetter) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(*params.SecretId)
	return args.Get(0).(*secretsmanager.GetSecretValueOutput), args.Error(1)
}
