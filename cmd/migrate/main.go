package main

import (
	"github.com/lcolonia21/BizGuide-Final-System/internal/tools/common"
	tool "github.com/lcolonia21/BizGuide-Final-System/internal/tools/migrate"
)

func main() {
	common.Execute(tool.NewRootCommand())
}
