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

package scaffold

import "text/template"

var pomTemplate = template.Must(template.New("pom").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0
         http://maven.apache.org/xsd/maven-4.0.0.xsd">
    <modelVersion>4.0.0</modelVersion>

    <groupId>{{.GroupID}}</groupId>
    <artifactId>{{.ArtifactID}}</artifactId>
    <version>{{.Version}}</version>
    <packaging>jar</packaging>

    <name>{{.Name}}</name>
    <description>{{.Description}}</description>

    <properties>
        <project.build.sourceEncoding>UTF-8</project.build.sourceEncoding>
        <java.version>{{.JavaVersion}}</java.version>
        <maven.compiler.source>{{.JavaVersion}}</maven.compiler.source>
        <maven.compiler.target>{{.JavaVersion}}</maven.compiler.target>
        <maven.compiler.release>{{.JavaVersion}}</maven.compiler.release>
        <karate.version>{{.KarateVersion}}</karate.version>
        <junit.version>{{.JUnitVersion}}</junit.version>
    </properties>

    <dependencies>
{{- range .Dependencies}}
        <dependency>
            <groupId>{{.GroupID}}</groupId>
            <artifactId>{{.ArtifactID}}</artifactId>
            <version>{{.Version}}</version>
            <scope>{{.Scope}}</scope>
        </dependency>
{{- end}}
    </dependencies>

    <build>
        <testResources>
            <testResource>
                <directory>src/test/resources</directory>
                <filtering>false</filtering>
            </testResource>
        </testResources>

        <plugins>
            <plugin>
                <groupId>org.apache.maven.plugins</groupId>
                <artifactId>maven-compiler-plugin</artifactId>
                <version>3.11.0</version>
                <configuration>
                    <encoding>UTF-8</encoding>
                    <source>${java.version}</source>
                    <target>${java.version}</target>
                    <compilerArgs>
                        <arg>-parameters</arg>
                    </compilerArgs>
                </configuration>
            </plugin>

            <plugin>
                <groupId>org.apache.maven.plugins</groupId>
                <artifactId>maven-surefire-plugin</artifactId>
                <version>3.0.0-M9</version>
                <configuration>
                    <argLine>-Dfile.encoding=UTF-8</argLine>
                    <includes>
                        <include>**/*Test.java</include>
                        <include>**/Test*.java</include>
                        <include>**/*Runner.java</include>
                    </includes>
                    <systemPropertyVariables>
                        <karate.env>${karate.env}</karate.env>
                    </systemPropertyVariables>
                    <testFailureIgnore>false</testFailureIgnore>
                </configuration>
            </plugin>
        </plugins>
    </build>
</project>
`))

var testRunnerTemplate = template.Must(template.New("runner").Parse(`package {{.Package}};

import com.intuit.karate.junit5.Karate;

/**
 * Test runner for {{.ClassName}}.
 */
public class {{.ClassName}} {

    @Karate.Test
    Karate test() {
        return Karate.run("classpath:{{.FeaturePath}}")
                {{- if .TagsArg}}
                .tags("{{.TagsArg}}")
                {{- end}}
                .relativeTo(getClass());
    }
}
`))

var parallelRunnerTemplate = template.Must(template.New("parallel").Parse(`package {{.Package}};

import com.intuit.karate.Results;
import com.intuit.karate.Runner;
import static org.junit.jupiter.api.Assertions.*;
import org.junit.jupiter.api.Test;

/**
 * Parallel test runner for executing all tests.
 */
public class ParallelTestRunner {

    @Test
    void testParallel() {
        Results results = Runner.path("classpath:features")
                .parallel({{.Threads}});
        assertEquals(0, results.getFailCount(), results.getErrorMessages());
    }
}
`))

var testHooksTemplate = template.Must(template.New("hooks").Parse(`package {{.Package}};

import com.intuit.karate.RuntimeHook;
import com.intuit.karate.core.ScenarioRuntime;
import com.intuit.karate.Suite;

/**
 * Global test hooks for before/after suite and scenario execution.
 */
public class TestHooks implements RuntimeHook {

    @Override
    public void beforeSuite(Suite suite) {
        System.out.println("=================================");
        System.out.println("Starting Test Suite Execution");
        System.out.println("=================================");
    }

    @Override
    public void afterSuite(Suite suite) {
        System.out.println("=================================");
        System.out.println("Test Suite Execution Completed");
        System.out.println("=================================");
    }

    @Override
    public boolean beforeScenario(ScenarioRuntime sr) {
        System.out.println(">> Starting Scenario: " + sr.scenario.getName());
        return true;
    }

    @Override
    public void afterScenario(ScenarioRuntime sr) {
        System.out.println("<< Completed Scenario: " + sr.scenario.getName());
        if (sr.result.isFailed()) {
            System.err.println("   [FAILED] " + sr.result.getErrorMessage());
        } else {
            System.out.println("   [PASSED]");
        }
    }
}
`))

var testConfigTemplate = template.Must(template.New("config").Parse(`package {{.Package}};

import java.util.HashMap;
import java.util.Map;

/**
 * Test configuration and shared utilities.
 */
public class TestConfig {

    private static final Map<String, String> config = new HashMap<>();

    static {
        // Load configuration from system properties or environment
        config.put("env", System.getProperty("karate.env", "dev"));
    }

    public static String getEnv() {
        return config.get("env");
    }

    public static String getProperty(String key) {
        return config.get(key);
    }

    public static void setProperty(String key, String value) {
        config.put(key, value);
    }
}
`))

var apiHelperTemplate = template.Must(template.New("helper").Parse(`package {{.Package}};

import java.util.UUID;
import java.time.LocalDateTime;
import java.time.format.DateTimeFormatter;

/**
 * Helper utilities for API testing.
 */
public class ApiHelper {

    public static String generateUUID() {
        return UUID.randomUUID().toString();
    }

    public static String getCurrentTimestamp() {
        return LocalDateTime.now().format(DateTimeFormatter.ISO_DATE_TIME);
    }

    public static String randomString(int length) {
        String chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789";
        StringBuilder sb = new StringBuilder();
        for (int i = 0; i < length; i++) {
            int index = (int) (Math.random() * chars.length());
            sb.append(chars.charAt(index));
        }
        return sb.toString();
    }

    public static int randomInt(int min, int max) {
        return (int) (Math.random() * (max - min + 1)) + min;
    }
}
`))

var dataGeneratorTemplate = template.Must(template.New("datagen").Parse(`package {{.Package}};

import java.util.HashMap;
import java.util.Map;

/**
 * Test data generator for common test scenarios.
 */
public class DataGenerator {

    public static Map<String, String> getSampleHeaders() {
        Map<String, String> headers = new HashMap<>();
        headers.put("Content-Type", "application/json");
        headers.put("Accept", "application/json");
        headers.put("x-correlation-id", ApiHelper.generateUUID());
        headers.put("x-request-id", ApiHelper.generateUUID());
        return headers;
    }

    public static Map<String, Object> getSampleRequestBody() {
        Map<String, Object> body = new HashMap<>();
        body.put("name", "Test " + ApiHelper.randomString(5));
        body.put("description", "Generated test data");
        body.put("timestamp", ApiHelper.getCurrentTimestamp());
        return body;
    }
}
`))

var karateConfigTemplate = template.Must(template.New("karate-config").Parse(`function fn() {
  var env = karate.env || 'dev';
  karate.log('karate.env:', env);

  var config = {
    baseUrl: '{{.BaseURL}}',
    timeout: {{.TimeoutMillis}},
    retryCount: {{.RetryCount}}
  };

{{range $i, $env := .Environments}}{{if $i}} else {{else}}  {{end}}if (env === '{{$env.Name}}') {
{{- range $env.Properties}}
    config.{{.Key}} = '{{.Value}}';
{{- end}}
  }{{end}}

  return config;
}
`))

const logbackXML = `<?xml version="1.0" encoding="UTF-8"?>
<configuration>

    <appender name="STDOUT" class="ch.qos.logback.core.ConsoleAppender">
        <encoder>
            <pattern>%d{HH:mm:ss.SSS} [%thread] %-5level %logger{36} - %msg%n</pattern>
        </encoder>
    </appender>

    <appender name="FILE" class="ch.qos.logback.core.FileAppender">
        <file>target/karate.log</file>
        <encoder>
            <pattern>%d{HH:mm:ss.SSS} [%thread] %-5level %logger{36} - %msg%n</pattern>
        </encoder>
    </appender>

    <logger name="com.intuit.karate" level="INFO"/>

    <root level="INFO">
        <appender-ref ref="STDOUT" />
        <appender-ref ref="FILE" />
    </root>

</configuration>
`

const gitignoreContent = `# Maven
target/
pom.xml.tag
pom.xml.releaseBackup
pom.xml.versionsBackup
pom.xml.next
release.properties
dependency-reduced-pom.xml
buildNumber.properties
.mvn/timing.properties

# IDE
.idea/
*.iml
.project
.classpath
.settings/
*.swp
*.bak
*~

# Karate
*.log
karate-reports/

# OS
.DS_Store
Thumbs.db
`

var readmeTemplate = template.Must(template.New("readme").Parse(`# {{.Name}}

Automated API tests using the Karate framework.

- Base URL: {{.BaseURL}}
- Total features: {{.Features}}
- Framework: Karate DSL with JUnit5
- Build tool: Maven

## Running Tests

` + "```bash" + `
# Run all tests
mvn test

# Run a specific environment
mvn test -Dkarate.env=qa

# Run with parallel execution
mvn test -Dkarate.options="--threads 5"

# Run specific tags
mvn test -Dkarate.options="--tags @smoke"
` + "```" + `

## Project Structure

` + "```" + `
src/
└── test/
    ├── java/
    │   └── com/automation/
    │       ├── runners/          # Test runners
    │       ├── hooks/            # Before/After hooks
    │       ├── config/           # Configuration classes
    │       └── utils/            # Helper utilities
    └── resources/
        ├── features/             # Karate feature files
        ├── data/                 # Test data
        ├── config/               # Environment configs
        ├── karate-config.js      # Karate configuration
        └── logback-test.xml      # Logging configuration
` + "```" + `

## Configuration

Environment properties live in src/test/resources/config/. Global
settings (base URL per environment, timeouts, retries) are in
karate-config.js.

## Reports

After test execution, reports land in:

- target/karate-reports/karate-summary.html
- target/karate.log
`))
