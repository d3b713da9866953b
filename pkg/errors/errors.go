package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：偏好已被其他请求修改
var ErrOptimisticLock = errors.New("偏好已被其他操作修改，请刷新后重试")
