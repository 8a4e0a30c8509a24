package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 接口：
//
//   var s core.Store = NewMemoryStore()        // 测试/开发
//   s, err := NewRedisStore("127.0.0.1:6379", 0) // 生产
