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

// Package jmeter builds JMeter test plans (.jmx) from API analyses or
// generated Karate features.
package jmeter

// TestPlan is the logical model behind a .jmx document.
type TestPlan struct {
	Name         string        `json:"name"`
	Protocol     string        `json:"protocol"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ThreadGroups []ThreadGroup `json:"thread_groups"`
}

// ThreadGroup runs its requests with the configured load profile.
type ThreadGroup struct {
	Name            string        `json:"name"`
	NumThreads      int           `json:"num_threads"`
	RampTime        int           `json:"ramp_time"`
	LoopCount       int           `json:"loop_count"`
	ContinueOnError bool          `json:"continue_on_error"`
	Requests        []HTTPRequest `json:"http_requests"`
}

// HTTPRequest is one sampler inside a thread group.
type HTTPRequest struct {
	Name       string      `json:"name"`
	Method     string      `json:"method"`
	Path       string      `json:"path"`
	Headers    []Header    `json:"headers,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	BodyData   string      `json:"body_data,omitempty"`
}

// Header is a name/value pair managed by an HTTP Header Manager.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parameter is a query argument of a sampler.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the outcome of test plan generation.
type Result struct {
	TestPlan          TestPlan `json:"test_plan"`
	XMLContent        string   `json:"xml_content"`
	TotalRequests     int      `json:"total_requests"`
	TotalThreadGroups int      `json:"total_thread_groups"`
}

func newThreadGroup(name string) ThreadGroup {
	return ThreadGroup{
		Name:            name,
		NumThreads:      1,
		RampTime:        1,
		LoopCount:       1,
		ContinueOnError: true,
	}
}
