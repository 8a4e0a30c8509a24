// recommendd 是推荐引擎的独立服务进程。
//
// 启动参数：
//
//	-addr       监听地址（默认 :8080）
//	-redis      Redis 地址；为空时使用内存存储（开发/演示）
//	-knowledge  知识库 YAML 覆盖文件；为空时使用内置映射表
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/travelie/recommend/api"
	"github.com/travelie/recommend/core"
	"github.com/travelie/recommend/knowledge"
	"github.com/travelie/recommend/recset"
	"github.com/travelie/recommend/score"
	"github.com/travelie/recommend/store"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	redisAddr := flag.String("redis", "", "redis address (empty = in-memory store)")
	kbPath := flag.String("knowledge", "", "knowledge base yaml override (empty = builtin)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	kb, err := loadKnowledge(*kbPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", *kbPath).Msg("load knowledge base")
	}

	var st core.Store
	if *redisAddr != "" {
		st, err = store.NewRedisStore(*redisAddr, 0)
		if err != nil {
			log.Fatal().Err(err).Str("addr", *redisAddr).Msg("connect redis")
		}
	} else {
		st = store.NewMemoryStore()
	}
	defer st.Close()

	mgr := recset.NewManager(st, score.NewScorer(kb), recset.WithLogger(log))
	srv := api.NewServer(mgr, log)

	log.Info().Str("addr", *addr).Str("store", st.Name()).Msg("recommendd listening")
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func loadKnowledge(path string, log zerolog.Logger) (*knowledge.Base, error) {
	if path == "" {
		return knowledge.Default(knowledge.WithLogger(log)), nil
	}
	return knowledge.LoadFromYAML(path, knowledge.WithLogger(log))
}
