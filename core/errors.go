package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），Cause 保留底层错误
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Artifact 错误：ARTIFACT_LOAD（启动期致命错误）
//   - 请求错误：INVALID_INPUT
//   - 推理错误：TRANSFORM, PREDICTION
//   - Store 错误：NOT_FOUND, UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "PREDICTION"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "feature", "model"）
	Cause   error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Cause.Error()
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// IsDomainError 检查错误链中是否包含 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中最外层的 DomainError，如果没有则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 推理链路错误代码
	ErrorCodeArtifactLoad = "ARTIFACT_LOAD" // 模型文件加载失败（致命，仅启动期）
	ErrorCodeTransform    = "TRANSFORM"     // 文本向量化失败
	ErrorCodePrediction   = "PREDICTION"    // 推理失败（含向量化、分类、解码）
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleFeature   = "feature"   // 特征模块
	ModuleModel     = "model"     // 模型模块
	ModuleLabel     = "label"     // 标签编解码模块
	ModuleArtifact  = "artifact"  // 模型文件模块
	ModuleInference = "inference" // 推理服务模块
	ModuleRecommend = "recommend" // 推荐服务模块
)

// NewInvalidInputError 创建请求参数错误
func NewInvalidInputError(module, message string) *DomainError {
	return NewDomainError(module, ErrorCodeInvalidInput, message)
}

// NewArtifactLoadError 创建模型文件加载错误
func NewArtifactLoadError(message string, cause error) *DomainError {
	return WrapDomainError(ModuleArtifact, ErrorCodeArtifactLoad, message, cause)
}

// NewTransformError 创建向量化错误
func NewTransformError(message string) *DomainError {
	return NewDomainError(ModuleFeature, ErrorCodeTransform, message)
}

// NewPredictionError 创建推理错误，消息沿用底层错误描述
func NewPredictionError(module string, cause error) *DomainError {
	return WrapDomainError(module, ErrorCodePrediction, "", cause)
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsArtifactLoad 检查错误是否为 ARTIFACT_LOAD
func IsArtifactLoad(err error) bool { return hasCode(err, ErrorCodeArtifactLoad) }

// IsPrediction 检查错误是否为 PREDICTION
func IsPrediction(err error) bool { return hasCode(err, ErrorCodePrediction) }
