package aws

import (
	"errors"

	smTypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"

	"github.com/vietdv277/hush/pkg/provider"
)

var errorCodeKinds = map[string]provider.ErrorKind{
	"ResourceNotFoundException":        provider.KindNotFound,
	"MalformedPolicyDocumentException": provider.KindMalformedPolicy,
	"InvalidRequestException":          provider.KindInvalidRequest,
	"InvalidParameterException":        provider.KindInvalidParameter,
	"ResourceExistsException":          provider.KindExists,
}

// Classify tags an SDK error with its provider.ErrorKind. Errors that carry
// no API error code are returned as a RemoteError of KindUnknown.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var re *provider.RemoteError
	if errors.As(err, &re) {
		return err
	}

	var (
		notFound  *smTypes.ResourceNotFoundException
		malformed *smTypes.MalformedPolicyDocumentException
		invalid   *smTypes.InvalidRequestException
		param     *smTypes.InvalidParameterException
		exists    *smTypes.ResourceExistsException
	)
	switch {
	case errors.As(err, &notFound):
		return &provider.RemoteError{Kind: provider.KindNotFound, Code: notFound.ErrorCode(), Err: err}
	case errors.As(err, &malformed):
		return &provider.RemoteError{Kind: provider.KindMalformedPolicy, Code: malformed.ErrorCode(), Err: err}
	case errors.As(err, &invalid):
		return &provider.RemoteError{Kind: provider.KindInvalidRequest, Code: invalid.ErrorCode(), Err: err}
	case errors.As(err, &param):
		return &provider.RemoteError{Kind: provider.KindInvalidParameter, Code: param.ErrorCode(), Err: err}
	case errors.As(err, &exists):
		return &provider.RemoteError{Kind: provider.KindExists, Code: exists.ErrorCode(), Err: err}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return &provider.RemoteError{Kind: errorCodeKinds[code], Code: code, Err: err}
	}

	return &provider.RemoteError{Kind: provider.KindUnknown, Err: err}
}
