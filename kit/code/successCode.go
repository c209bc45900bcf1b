package code

import httpPKG "net/http"

type SuccessCode struct {
	HTTPCode int
}

// SuccessHTTPCoder lets a response pick its own success status.
type SuccessHTTPCoder interface {
	SuccessHTTPCode() int
}

func ParseResponseSuccessCode(res interface{}) *SuccessCode {
	switch successCode := res.(type) {
	case SuccessCode:
		return &successCode
	case SuccessHTTPCoder:
		return &SuccessCode{HTTPCode: successCode.SuccessHTTPCode()}
	case nil:
		return &SuccessCode{HTTPCode: httpPKG.StatusNoContent}
	}
	return &SuccessCode{HTTPCode: httpPKG.StatusOK}
}
