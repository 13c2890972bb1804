package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricRecorder publishes business counters to CloudWatch.
type MetricRecorder struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetricRecorder returns a recorder writing into namespace.
func NewMetricRecorder(cw CloudWatchAPI, namespace string) *MetricRecorder {
	return &MetricRecorder{CloudWatch: cw, Namespace: namespace}
}

// Count emits value for metric with the given dimensions at ts.
func (r *MetricRecorder) Count(ctx context.Context, metric string, value float64, ts time.Time, dims map[string]string) error {
	datum := cwtypes.MetricDatum{
		MetricName: awsString(metric),
		Unit:       cwtypes.StandardUnitCount,
		Value:      &value,
		Timestamp:  &ts,
	}
	for k, v := range dims {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  awsString(k),
			Value: awsString(v),
		})
	}

	_, err := r.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(r.Namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
