// File: metrics/cloudwatch.go
package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"cmv-site/logger"
)

// CloudWatchNamespace groups every metric the site publishes.
const CloudWatchNamespace = "ChinmayaVasai"

// CloudWatch publishes the measurements that matter for alarms: live
// displays, form outcomes and API failures. Per-request HTTP timings stay in
// Prometheus.
type CloudWatch struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
	env       string
	// async sends each datum on its own goroutine so handlers never wait on AWS.
	async bool
}

// NewCloudWatch builds a publisher for region using the default AWS
// credential chain.
func NewCloudWatch(region, env string) (*CloudWatch, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &CloudWatch{
		client:    cloudwatch.New(sess),
		namespace: CloudWatchNamespace,
		env:       env,
		async:     true,
	}, nil
}

// NewCloudWatchWithClient publishes synchronously through client.
func NewCloudWatchWithClient(client cloudwatchiface.CloudWatchAPI, env string) *CloudWatch {
	return &CloudWatch{client: client, namespace: CloudWatchNamespace, env: env}
}

func (c *CloudWatch) HTTPRequest(string, string, int, time.Duration) {}

func (c *CloudWatch) APICall(method, path string, status int, elapsed time.Duration) {
	c.put("ContentAPILatencyMs", float64(elapsed.Milliseconds()), cloudwatch.StandardUnitMilliseconds,
		dimension("Path", path))
	if status < 200 || status > 299 {
		c.put("ContentAPIErrors", 1, cloudwatch.StandardUnitCount, dimension("Path", path))
	}
}

func (c *CloudWatch) FormSubmission(form, outcome string) {
	c.put("FormSubmissions", 1, cloudwatch.StandardUnitCount,
		dimension("Form", form), dimension("Outcome", outcome))
}

func (c *CloudWatch) LiveDisplays(count int) {
	c.put("LiveCarouselDisplays", float64(count), cloudwatch.StandardUnitCount)
}

func dimension(name, value string) *cloudwatch.Dimension {
	return &cloudwatch.Dimension{Name: aws.String(name), Value: aws.String(value)}
}

// put packages one datum tagged with the environment.
func (c *CloudWatch) put(metricName string, value float64, unit string, dims ...*cloudwatch.Dimension) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: append([]*cloudwatch.Dimension{dimension("Environment", c.env)}, dims...),
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(value),
				Unit:       aws.String(unit),
			},
		},
	}
	send := func() {
		if _, err := c.client.PutMetricData(input); err != nil {
			logger.Error.Printf("[CloudWatch.put] metric %s failed: %v", metricName, err)
		}
	}
	if c.async {
		go send()
		return
	}
	send()
}
