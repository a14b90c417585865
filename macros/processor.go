// Package macros expands the bracket-delimited macros VAST allows in beacon URLs, such as
// [ERRORCODE] and [CACHEBUSTING].
package macros

import (
	"strings"
	"sync"
)

const (
	openDelimiter  = "["
	closeDelimiter = "]"
)

type Processor interface {
	// Replace returns url with every macro the provider knows replaced by its value.
	// Macros the provider does not know are kept as written.
	Replace(url string, provider Provider) string
}

// NewProcessor returns a processor which remembers where the macros of each URL it has
// seen are.
func NewProcessor() Processor {
	return &stringBasedProcessor{
		templates: make(map[string]urlMetaTemplate),
	}
}

type stringBasedProcessor struct {
	templates map[string]urlMetaTemplate
	sync.RWMutex
}

// urlMetaTemplate holds the start offset and name of every macro in a URL.
type urlMetaTemplate struct {
	indices []int
	names   []string
}

func constructTemplate(url string) urlMetaTemplate {
	tmplt := urlMetaTemplate{}
	currentIndex := 0
	for currentIndex < len(url) {
		start := strings.Index(url[currentIndex:], openDelimiter)
		if start == -1 {
			break
		}
		start += currentIndex
		nameStart := start + len(openDelimiter)
		end := strings.Index(url[nameStart:], closeDelimiter)
		if end == -1 {
			break
		}
		end += nameStart
		name := url[nameStart:end]
		if name == "" || strings.Contains(name, openDelimiter) {
			// "[[X]" still holds a macro after the first bracket
			currentIndex = start + len(openDelimiter)
			continue
		}
		tmplt.indices = append(tmplt.indices, start)
		tmplt.names = append(tmplt.names, name)
		currentIndex = end + len(closeDelimiter)
	}
	return tmplt
}

func (processor *stringBasedProcessor) Replace(url string, provider Provider) string {
	tmplt := processor.getTemplate(url)
	if len(tmplt.indices) == 0 {
		return url
	}

	var result strings.Builder
	currentIndex := 0
	for i, index := range tmplt.indices {
		name := tmplt.names[i]
		next := index + len(openDelimiter) + len(name) + len(closeDelimiter)
		result.WriteString(url[currentIndex:index])
		if value, ok := provider.GetMacro(name); ok {
			result.WriteString(value)
		} else {
			result.WriteString(url[index:next])
		}
		currentIndex = next
	}
	result.WriteString(url[currentIndex:])
	return result.String()
}

func (processor *stringBasedProcessor) getTemplate(url string) urlMetaTemplate {
	processor.RLock()
	template, ok := processor.templates[url]
	processor.RUnlock()

	if !ok {
		template = constructTemplate(url)
		processor.Lock()
		processor.templates[url] = template
		processor.Unlock()
	}
	return template
}
