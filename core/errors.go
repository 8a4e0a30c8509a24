package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）与消息（Message）
//   - 通过错误检查函数（IsXXX）区分处理策略，而非字符串比较
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "knowledge", "recset"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 后端不可用（可重试）
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleKnowledge = "knowledge" // 知识库模块
	ModuleRecSet    = "recset"    // 推荐集合模块
)

// 预定义错误
var (
	// ErrStoreNotFound 表示 key 不存在。
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

	// ErrSetNotFound 表示用户当前没有推荐集合。
	ErrSetNotFound = NewDomainError(ModuleRecSet, ErrorCodeNotFound, "recset: no active recommendation set")

	// ErrEntryNotFound 表示条目不存在或已过期。
	ErrEntryNotFound = NewDomainError(ModuleRecSet, ErrorCodeNotFound, "recset: entry not found")

	// ErrInvalidBudgetRange 表示画像中的预算区间非法（min < 0 或 max <= min）。
	ErrInvalidBudgetRange = NewDomainError(ModuleRecSet, ErrorCodeInvalidInput, "profile: invalid budget range")
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsRetryable 检查错误是否可重试。引擎自身不做重试，
// 重试与退避策略由调用方决定。
func IsRetryable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
