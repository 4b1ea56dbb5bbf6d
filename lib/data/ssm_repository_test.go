package data

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	ssmRepository SSMRepository
)

type MockSSMClient struct {
	TestSuccess bool
	Paths       []string
	calls       int
}

func InitializeSSMClient(mock *MockSSMClient) SSMRepository {
	return &SSMDao{
		SSM:    mock,
		Logger: logrus.New(),
	}
}

func (m *MockSSMClient) GetParametersByPath(ctx context.Context, input *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	if !m.TestSuccess {
		return nil, errors.New("error in GetParametersByPath")
	}

	m.Paths = append(m.Paths, aws.ToString(input.Path))
	m.calls++

	if m.calls == 1 {
		return &ssm.GetParametersByPathOutput{
			Parameters: []types.Parameter{
				{Name: aws.String("/fourhorizons/ALLOWED_ORIGINS"), Value: aws.String("http://localhost:5173")},
			},
			NextToken: aws.String("page-2"),
		}, nil
	}

	return &ssm.GetParametersByPathOutput{
		Parameters: []types.Parameter{
			{Name: aws.String("/fourhorizons/OTHER"), Value: aws.String("value2")},
		},
	}, nil
}

func Test_GetParameters_Success(t *testing.T) {
	//Arrange
	mock := &MockSSMClient{TestSuccess: true}
	ssmRepository = InitializeSSMClient(mock)

	//Act
	actual, err := ssmRepository.GetParameters()

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", actual["/fourhorizons/ALLOWED_ORIGINS"])
	assert.Equal(t, "value2", actual["/fourhorizons/OTHER"])
	assert.Equal(t, []string{"/fourhorizons", "/fourhorizons"}, mock.Paths)
}

func Test_GetParameters_Failure(t *testing.T) {
	//Arrange
	ssmRepository = InitializeSSMClient(&MockSSMClient{TestSuccess: false})
	expected := "error in GetParametersByPath"

	//Act
	_, actual := ssmRepository.GetParameters()

	//Assert
	assert.Equal(t, expected, actual.Error())
}
