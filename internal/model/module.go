package model

import "strings"

// Module 行测科目的机器键
type Module string

const (
	ModulePoliticalTheory     Module = "political-theory"
	ModuleCommonSense         Module = "common-sense"
	ModuleVerbalUnderstanding Module = "verbal-understanding"
	ModuleQuantitative        Module = "quantitative"
	ModuleJudgmentReasoning   Module = "judgment-reasoning"
	ModuleDataAnalysis        Module = "data-analysis"
)

var moduleLabels = map[Module]string{
	ModulePoliticalTheory:     "政治理论",
	ModuleCommonSense:         "常识判断",
	ModuleVerbalUnderstanding: "言语理解",
	ModuleQuantitative:        "数量关系",
	ModuleJudgmentReasoning:   "判断推理",
	ModuleDataAnalysis:        "资料分析",
}

var labelModules = func() map[string]Module {
	m := make(map[string]Module, len(moduleLabels))
	for k, v := range moduleLabels {
		m[v] = k
	}
	return m
}()

// Modules 按考试顺序排列的全部科目
func Modules() []Module {
	return []Module{
		ModulePoliticalTheory,
		ModuleCommonSense,
		ModuleVerbalUnderstanding,
		ModuleQuantitative,
		ModuleJudgmentReasoning,
		ModuleDataAnalysis,
	}
}

// Label 科目的展示名称
func (m Module) Label() string {
	return moduleLabels[m]
}

// ParseModule 接受机器键或展示名称
func ParseModule(raw string) (Module, bool) {
	s := strings.TrimSpace(raw)
	if _, ok := moduleLabels[Module(s)]; ok {
		return Module(s), true
	}
	if m, ok := labelModules[s]; ok {
		return m, true
	}
	return "", false
}
