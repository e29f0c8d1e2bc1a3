// Copyright 2025 apitestgen Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jmeter

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// element is an ordered XML tree node. JMX interleaves configuration
// elements with sibling hashTree elements, which rules out static
// marshal structs.
type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

func newElement(name string, attrPairs ...string) *element {
	e := &element{name: name}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		e.attrs = append(e.attrs, xml.Attr{
			Name:  xml.Name{Local: attrPairs[i]},
			Value: attrPairs[i+1],
		})
	}
	return e
}

func (e *element) add(child *element) *element {
	e.children = append(e.children, child)
	return child
}

func (e *element) addText(name, text string, attrPairs ...string) {
	child := newElement(name, attrPairs...)
	child.text = text
	e.add(child)
}

func (e *element) stringProp(name, value string) {
	e.addText("stringProp", value, "name", name)
}

func (e *element) boolProp(name string, value bool) {
	e.addText("boolProp", strconv.FormatBool(value), "name", name)
}

func (e *element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.text != "" {
		if err := enc.EncodeToken(xml.CharData(e.text)); err != nil {
			return err
		}
	}
	for _, child := range e.children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// renderJMX serializes a test plan in the JMeter 5.6.3 JMX layout.
func renderJMX(plan TestPlan) (string, error) {
	root := newElement("jmeterTestPlan", "version", "1.2", "properties", "5.0", "jmeter", "5.6.3")
	tree := root.add(newElement("hashTree"))

	planElem := tree.add(newElement("TestPlan",
		"guiclass", "TestPlanGui", "testclass", "TestPlan",
		"testname", plan.Name, "enabled", "true"))
	planElem.stringProp("TestPlan.comments", fmt.Sprintf("Generated test plan for %s", plan.Host))
	planElem.boolProp("TestPlan.functional_mode", false)
	planElem.boolProp("TestPlan.tearDown_on_shutdown", true)
	planElem.boolProp("TestPlan.serialize_threadgroups", false)
	arguments := planElem.add(newElement("elementProp",
		"name", "TestPlan.arguments", "elementType", "Arguments",
		"guiclass", "ArgumentsPanel", "testclass", "Arguments",
		"testname", "User Defined Variables", "enabled", "true"))
	arguments.add(newElement("collectionProp", "name", "Arguments.arguments"))
	planElem.stringProp("TestPlan.user_define_classpath", "")

	planTree := tree.add(newElement("hashTree"))
	for _, group := range plan.ThreadGroups {
		addThreadGroup(planTree, group, plan)
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	enc := xml.NewEncoder(&b)
	enc.Indent("", "  ")
	if err := root.encode(enc); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	b.WriteString("\n")
	return b.String(), nil
}

func addThreadGroup(parent *element, group ThreadGroup, plan TestPlan) {
	tg := parent.add(newElement("ThreadGroup",
		"guiclass", "ThreadGroupGui", "testclass", "ThreadGroup",
		"testname", group.Name, "enabled", "true"))

	onError := "stoptest"
	if group.ContinueOnError {
		onError = "continue"
	}
	tg.stringProp("ThreadGroup.on_sample_error", onError)

	controller := tg.add(newElement("elementProp",
		"name", "ThreadGroup.main_controller", "elementType", "LoopController",
		"guiclass", "LoopControlPanel", "testclass", "LoopController",
		"testname", "Loop Controller", "enabled", "true"))
	controller.boolProp("LoopController.continue_forever", false)
	controller.stringProp("LoopController.loops", strconv.Itoa(group.LoopCount))

	tg.stringProp("ThreadGroup.num_threads", strconv.Itoa(group.NumThreads))
	tg.stringProp("ThreadGroup.ramp_time", strconv.Itoa(group.RampTime))
	tg.stringProp("ThreadGroup.start_time", "")
	tg.stringProp("ThreadGroup.end_time", "")
	tg.boolProp("ThreadGroup.scheduler", false)
	tg.stringProp("ThreadGroup.duration", "")
	tg.stringProp("ThreadGroup.delay", "")
	tg.boolProp("ThreadGroup.same_user_on_next_iteration", true)

	groupTree := parent.add(newElement("hashTree"))
	for _, request := range group.Requests {
		addHTTPRequest(groupTree, request, plan)
	}
	addListener(groupTree, "ViewResultsFullVisualizer", "View Results Tree")
	addListener(groupTree, "SummaryReport", "Summary Report")
}

func addHTTPRequest(parent *element, request HTTPRequest, plan TestPlan) {
	sampler := parent.add(newElement("HTTPSamplerProxy",
		"guiclass", "HttpTestSampleGui", "testclass", "HTTPSamplerProxy",
		"testname", request.Name, "enabled", "true"))

	arguments := sampler.add(newElement("elementProp",
		"name", "HTTPsampler.Arguments", "elementType", "Arguments",
		"guiclass", "HTTPArgumentsPanel", "testclass", "Arguments",
		"testname", "User Defined Variables", "enabled", "true"))
	argCollection := arguments.add(newElement("collectionProp", "name", "Arguments.arguments"))
	for _, param := range request.Parameters {
		arg := argCollection.add(newElement("elementProp",
			"name", param.Name, "elementType", "HTTPArgument"))
		arg.boolProp("HTTPArgument.always_encode", false)
		arg.stringProp("Argument.value", param.Value)
		arg.stringProp("Argument.metadata", "=")
		arg.boolProp("HTTPArgument.use_equals", true)
		arg.stringProp("Argument.name", param.Name)
	}

	sampler.stringProp("HTTPSampler.domain", plan.Host)
	sampler.stringProp("HTTPSampler.port", strconv.Itoa(plan.Port))
	sampler.stringProp("HTTPSampler.protocol", plan.Protocol)
	sampler.stringProp("HTTPSampler.contentEncoding", "")
	sampler.stringProp("HTTPSampler.path", request.Path)
	sampler.stringProp("HTTPSampler.method", request.Method)
	sampler.boolProp("HTTPSampler.follow_redirects", true)
	sampler.boolProp("HTTPSampler.auto_redirects", false)
	sampler.boolProp("HTTPSampler.use_keepalive", true)
	sampler.boolProp("HTTPSampler.DO_MULTIPART_POST", false)
	sampler.stringProp("HTTPSampler.embedded_url_re", "")
	sampler.stringProp("HTTPSampler.connect_timeout", "")
	sampler.stringProp("HTTPSampler.response_timeout", "")

	if request.BodyData != "" {
		sampler.boolProp("HTTPSampler.postBodyRaw", true)
		bodyArgs := sampler.add(newElement("elementProp",
			"name", "HTTPsampler.Arguments", "elementType", "Arguments"))
		bodyCollection := bodyArgs.add(newElement("collectionProp", "name", "Arguments.arguments"))
		bodyArg := bodyCollection.add(newElement("elementProp",
			"name", "", "elementType", "HTTPArgument"))
		bodyArg.stringProp("Argument.value", request.BodyData)
	}

	samplerTree := parent.add(newElement("hashTree"))
	if len(request.Headers) > 0 {
		addHeaderManager(samplerTree, request.Headers)
	}
}

func addHeaderManager(parent *element, headers []Header) {
	manager := parent.add(newElement("HeaderManager",
		"guiclass", "HeaderPanel", "testclass", "HeaderManager",
		"testname", "HTTP Header Manager", "enabled", "true"))
	collection := manager.add(newElement("collectionProp", "name", "HeaderManager.headers"))
	for _, header := range headers {
		entry := collection.add(newElement("elementProp",
			"name", "", "elementType", "Header"))
		entry.stringProp("Header.name", header.Name)
		entry.stringProp("Header.value", header.Value)
	}
	parent.add(newElement("hashTree"))
}

var saveConfigFields = [][2]string{
	{"time", "true"}, {"latency", "true"}, {"timestamp", "true"},
	{"success", "true"}, {"label", "true"}, {"code", "true"},
	{"message", "true"}, {"threadName", "true"}, {"dataType", "true"},
	{"encoding", "false"}, {"assertions", "true"}, {"subresults", "true"},
	{"responseData", "false"}, {"samplerData", "false"}, {"xml", "false"},
	{"fieldNames", "true"}, {"responseHeaders", "false"}, {"requestHeaders", "false"},
	{"responseDataOnError", "false"}, {"saveAssertionResultsFailureMessage", "true"},
	{"assertionsResultsToSave", "0"}, {"bytes", "true"}, {"sentBytes", "true"},
	{"url", "true"}, {"threadCounts", "true"}, {"idleTime", "true"},
	{"connectTime", "true"},
}

func addListener(parent *element, guiClass, name string) {
	listener := parent.add(newElement("ResultCollector",
		"guiclass", guiClass, "testclass", "ResultCollector",
		"testname", name, "enabled", "true"))
	listener.boolProp("ResultCollector.error_logging", false)

	objProp := listener.add(newElement("objProp"))
	objProp.addText("name", "saveConfig")
	value := objProp.add(newElement("value", "class", "SampleSaveConfiguration"))
	for _, field := range saveConfigFields {
		value.addText(field[0], field[1])
	}
	listener.stringProp("filename", "")
	parent.add(newElement("hashTree"))
}

// Save writes the rendered plan to path.
func Save(result *Result, path string) error {
	if err := os.WriteFile(path, []byte(result.XMLContent), 0o644); err != nil {
		return fmt.Errorf("failed to write JMX file: %w", err)
	}
	return nil
}
