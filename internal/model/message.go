package model

// MessageRequest 宿主传入的一条消息（已去掉 bot 命令前缀）
type MessageRequest struct {
	// Text 原始消息文本
	Text string `json:"text" binding:"required"`
	// UserID 发起请求的用户标识，透传给执行器
	UserID string `json:"user_id,omitempty"`
	// Now 参考时间，RFC3339 或 2006-01-02；为空时由服务按配置时区取当前时间
	Now string `json:"now,omitempty"`
	// Context 可选上下文（会话 ID、租户等），透传给执行器
	Context map[string]string `json:"context,omitempty"`
}

// ParseResponse 只解析不执行的结果
type ParseResponse struct {
	// RequestID 请求 ID，便于追踪
	RequestID string `json:"request_id"`
	// Success 是否构建出 Action
	Success bool `json:"success"`
	// Action 解析出的动作
	Action *Action `json:"action,omitempty"`
	// Errors 错误与提示
	Errors []*ParseError `json:"errors"`
	// Reply 给用户的回复文本
	Reply string `json:"reply"`
}

// MessageResponse 解析并执行后的结果
type MessageResponse struct {
	ParseResponse
	// Executed 是否已交给执行器
	Executed bool `json:"executed"`
	// Summary 执行结果摘要
	Summary *ActionSummary `json:"summary,omitempty"`
}

// ActionSummary 已执行动作的简要信息
type ActionSummary struct {
	Intent string `json:"intent"`
	// Record 执行器返回的记录，用于格式化回复
	Record map[string]Value `json:"record,omitempty"`
	// Rows 列表类结果
	Rows [][]string `json:"rows,omitempty"`
	// Headers Rows 的表头
	Headers []string `json:"headers,omitempty"`
	// Note 备注
	Note string `json:"note,omitempty"`
}

// IntentInfo 意图的对外描述
type IntentInfo struct {
	Name     string   `json:"name"`
	Literals []string `json:"literals,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Required []string `json:"required,omitempty"`
	Usage    string   `json:"usage,omitempty"`
}
